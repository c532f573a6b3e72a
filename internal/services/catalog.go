package services

import (
	"context"

	"github.com/abrezinsky/snailderby/internal/errors"
	"github.com/abrezinsky/snailderby/internal/logger"
	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/repository"
)

// LoadCatalog seeds the default entrants into an empty store and returns the
// catalog. Entrant ids must run 0..n-1 because races index entrants by id.
func LoadCatalog(ctx context.Context, log logger.Logger, repo repository.EntrantRepository) ([]models.Entrant, error) {
	seeded, err := repo.SeedEntrants(ctx, models.DefaultEntrants)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to seed entrants")
	}
	if seeded > 0 {
		log.Info("Seeded entrant catalog", "count", seeded)
	}

	entrants, err := repo.ListEntrants(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load entrants")
	}
	if len(entrants) == 0 {
		return nil, errors.Validation("entrant catalog is empty")
	}

	seen := make(map[string]bool, len(entrants))
	for i, e := range entrants {
		if e.ID != i {
			return nil, errors.Validationf("entrant %q has id %d, expected %d", e.Name, e.ID, i)
		}
		if seen[e.Name] {
			return nil, errors.Validationf("duplicate entrant name %q", e.Name)
		}
		seen[e.Name] = true
	}

	log.Debug("Loaded entrant catalog", "count", len(entrants))
	return entrants, nil
}
