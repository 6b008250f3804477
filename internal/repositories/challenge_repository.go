package repositories

import (
	"context"

	"github.com/shutterfolk/backend/internal/models"
	"gorm.io/gorm"
)

// ChallengeRepository defines the interface for challenge data operations
type ChallengeRepository interface {
	GetChallengeByID(ctx context.Context, id string) (*models.Challenge, error)
}

// PostgresChallengeRepository implements ChallengeRepository for PostgreSQL
type PostgresChallengeRepository struct {
	db *gorm.DB
}

// NewPostgresChallengeRepository creates a new PostgresChallengeRepository
func NewPostgresChallengeRepository(db *gorm.DB) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{db: db}
}

// GetChallengeByID retrieves a challenge by ID from PostgreSQL
func (r *PostgresChallengeRepository) GetChallengeByID(ctx context.Context, id string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}
