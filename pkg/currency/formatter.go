package currency

import (
	"fmt"
	"math"
	"strings"
)

// Fixed2 renders an amount with exactly two decimals and no grouping.
func Fixed2(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// Format renders an amount as "<CODE> 1,234.56". An empty code defaults to USD.
func Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := math.Round(amount * 100)
	whole := math.Floor(cents / 100)
	frac := int64(cents) % 100

	intStr := fmt.Sprintf("%.0f", whole)
	formatted := addThousandsSeparator(intStr, ",") + fmt.Sprintf(".%02d", frac)

	result := code + " " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
