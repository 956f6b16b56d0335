package skillmeta

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("skills metadata not found")

// Repository reads and writes the singleton vocabulary document.
type Repository interface {
	Get(ctx context.Context) (interface{}, error)
	Put(ctx context.Context, data interface{}) error
}
