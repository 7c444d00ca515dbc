// Package inventory defines how the storefront reads its account stock
// and the boundary records the stores hand back.
package inventory

import (
	"context"
	"errors"

	"dekugames/internal/core"
)

var ErrAccountNotFound = errors.New("account not found")

// Ports for inbound adapters.
type (
	// AccountReader returns every account joined with its transactions.
	AccountReader interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	// Pinger is implemented by readers that can report readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
