package repositories

import (
	"context"

	"github.com/shutterfolk/backend/internal/models"
	"gorm.io/gorm"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	GetPhotoByID(ctx context.Context, id string) (*models.Photo, error)
	// GetFirstAlbumForPhoto returns the first album containing the photo,
	// used to build richer deep links. gorm.ErrRecordNotFound means the
	// photo belongs to no album.
	GetFirstAlbumForPhoto(ctx context.Context, photoID string) (*models.Album, error)
}

// PostgresPhotoRepository implements PhotoRepository for PostgreSQL
type PostgresPhotoRepository struct {
	db *gorm.DB
}

// NewPostgresPhotoRepository creates a new PostgresPhotoRepository
func NewPostgresPhotoRepository(db *gorm.DB) *PostgresPhotoRepository {
	return &PostgresPhotoRepository{db: db}
}

// GetPhotoByID retrieves a photo by ID from PostgreSQL
func (r *PostgresPhotoRepository) GetPhotoByID(ctx context.Context, id string) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetFirstAlbumForPhoto retrieves the first album the photo appears in
func (r *PostgresPhotoRepository) GetFirstAlbumForPhoto(ctx context.Context, photoID string) (*models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).
		Joins("JOIN photo_albums ON photo_albums.album_id = albums.id").
		Where("photo_albums.photo_id = ?", photoID).
		Order("photo_albums.position ASC").
		First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}
