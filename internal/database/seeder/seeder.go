package seeder

import (
	"context"

	"skill-ledger/internal/domain/skillmeta"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, store skillmeta.Repository) error
}
