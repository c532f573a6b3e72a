package mock

import (
	"context"

	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListEntrantsError = errors.New("database error")
//	_, err := services.LoadCatalog(ctx, log, mockRepo)
//	// err will now contain the injected error
type Repository struct {
	repository.EntrantRepository

	ListEntrantsError  error
	GetEntrantError    error
	CountEntrantsError error
	UpsertEntrantError error
	SeedEntrantsError  error
}

// NewRepository creates a mock repository that wraps a real one
func NewRepository(real repository.EntrantRepository) *Repository {
	return &Repository{
		EntrantRepository: real,
	}
}

func (m *Repository) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	if m.ListEntrantsError != nil {
		return nil, m.ListEntrantsError
	}
	return m.EntrantRepository.ListEntrants(ctx)
}

func (m *Repository) GetEntrant(ctx context.Context, id int) (*models.Entrant, error) {
	if m.GetEntrantError != nil {
		return nil, m.GetEntrantError
	}
	return m.EntrantRepository.GetEntrant(ctx, id)
}

func (m *Repository) CountEntrants(ctx context.Context) (int, error) {
	if m.CountEntrantsError != nil {
		return 0, m.CountEntrantsError
	}
	return m.EntrantRepository.CountEntrants(ctx)
}

func (m *Repository) UpsertEntrant(ctx context.Context, e models.Entrant) error {
	if m.UpsertEntrantError != nil {
		return m.UpsertEntrantError
	}
	return m.EntrantRepository.UpsertEntrant(ctx, e)
}

func (m *Repository) SeedEntrants(ctx context.Context, entrants []models.Entrant) (int, error) {
	if m.SeedEntrantsError != nil {
		return 0, m.SeedEntrantsError
	}
	return m.EntrantRepository.SeedEntrants(ctx, entrants)
}
