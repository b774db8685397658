package server

import (
	"context"
	"fmt"

	"ripple/internal/models"
	"ripple/internal/service"
)

// VerifierFunc adapts a function to the ExternalVerifier interface.
type VerifierFunc func(ctx context.Context, provider, code string) (service.ExternalIdentity, error)

// Verify implements ExternalVerifier.
func (f VerifierFunc) Verify(ctx context.Context, provider, code string) (service.ExternalIdentity, error) {
	return f(ctx, provider, code)
}

// UnconfiguredVerifier rejects every exchange. Deployments supply a real
// verifier for the providers they enable.
func UnconfiguredVerifier() ExternalVerifier {
	return VerifierFunc(func(_ context.Context, provider, _ string) (service.ExternalIdentity, error) {
		return service.ExternalIdentity{}, models.NewExternalIdentityError(
			fmt.Sprintf("Provider %q is not configured", provider))
	})
}
