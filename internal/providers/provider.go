package providers

import (
	"context"

	"github.com/dharmasatrya/skyfare/internal/models"
)

// Provider is an offer source: one route and date in, offers plus the code
// dictionary out. Providers do not retry.
type Provider interface {
	Name() string
	FetchOffers(ctx context.Context, route models.Route) (models.OfferResult, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
