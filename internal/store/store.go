// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/shopchat/internal/domain"
)

// Repository persists checkout receipts.
type Repository interface {
	// SaveReceipt records one checkout outcome and assigns its ID.
	SaveReceipt(ctx context.Context, r *domain.Receipt) error

	// ListReceipts returns the receipts of a session, newest first.
	ListReceipts(ctx context.Context, sessionID string) ([]*domain.Receipt, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
