package ports

import (
	"context"
	"delivery-area-service/internal/domain"
)

// Port: a boundary for storing and retrieving Recipient entities.
type RecipientRepository interface {
	// Retrieve all recipients ordered by id.
	ListRecipients(ctx context.Context) ([]domain.Recipient, error)
	// Insert or replace recipients by id.
	SaveRecipients(ctx context.Context, recipients []domain.Recipient) error
	// Persist resolved coordinates keyed by recipient id.
	UpdateLocations(ctx context.Context, locations map[string]domain.GeoPoint) error
}
