package repositories

import (
	"context"

	"github.com/shutterfolk/backend/internal/models"
	"gorm.io/gorm"
)

// AlbumRepository defines the interface for album data operations
type AlbumRepository interface {
	GetAlbumByID(ctx context.Context, id string) (*models.Album, error)
}

// PostgresAlbumRepository implements AlbumRepository for PostgreSQL
type PostgresAlbumRepository struct {
	db *gorm.DB
}

// NewPostgresAlbumRepository creates a new PostgresAlbumRepository
func NewPostgresAlbumRepository(db *gorm.DB) *PostgresAlbumRepository {
	return &PostgresAlbumRepository{db: db}
}

// GetAlbumByID retrieves an album by ID from PostgreSQL
func (r *PostgresAlbumRepository) GetAlbumByID(ctx context.Context, id string) (*models.Album, error) {
	var album models.Album
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}
