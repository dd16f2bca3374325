package domain

import (
	"context"
)

// ServicePort defines the profesores service interface
type ServicePort interface {
	// Resolve looks one roster name up; (nil, nil) means not found
	Resolve(ctx context.Context, name string) (*Rating, error)
	// ResolveBatch resolves names in order, one slot per input
	ResolveBatch(ctx context.Context, names []string) ([]*Rating, error)
}
