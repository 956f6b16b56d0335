package seeder

import (
	"context"
	"fmt"

	"skill-ledger/internal/domain/skillmeta"
)

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, store skillmeta.Repository) error {
	if store == nil {
		return fmt.Errorf("nil store")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, store); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}
