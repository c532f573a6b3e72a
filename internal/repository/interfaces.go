package repository

import (
	"context"

	"github.com/abrezinsky/snailderby/internal/models"
)

// EntrantRepository defines entrant catalog operations
type EntrantRepository interface {
	ListEntrants(ctx context.Context) ([]models.Entrant, error)
	GetEntrant(ctx context.Context, id int) (*models.Entrant, error)
	CountEntrants(ctx context.Context) (int, error)
	UpsertEntrant(ctx context.Context, e models.Entrant) error
	SeedEntrants(ctx context.Context, entrants []models.Entrant) (int, error)
}

// Ensure Repository implements all interfaces
var _ EntrantRepository = (*Repository)(nil)
