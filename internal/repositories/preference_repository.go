package repositories

import (
	"context"

	"github.com/shutterfolk/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for email preference operations
type PreferenceRepository interface {
	GetCategoryByKey(ctx context.Context, key string) (*models.EmailCategory, error)
	ListCategories(ctx context.Context) ([]models.EmailCategory, error)
	// GetOptedOutUserIDs returns, in ONE query, the subset of userIDs that
	// have an explicit opted-out row for the category. Users absent from the
	// result are opted in by default.
	GetOptedOutUserIDs(ctx context.Context, categoryID uint, userIDs []uint) ([]uint, error)
	GetPreferencesForUser(ctx context.Context, userID uint) ([]models.EmailPreference, error)
	SetOptOut(ctx context.Context, userID, categoryID uint, optedOut bool) error
}

// PostgresPreferenceRepository implements PreferenceRepository for PostgreSQL
type PostgresPreferenceRepository struct {
	db *gorm.DB
}

// NewPostgresPreferenceRepository creates a new PostgresPreferenceRepository
func NewPostgresPreferenceRepository(db *gorm.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

// GetCategoryByKey retrieves an email category by its key
func (r *PostgresPreferenceRepository) GetCategoryByKey(ctx context.Context, key string) (*models.EmailCategory, error) {
	var category models.EmailCategory
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories retrieves all email categories
func (r *PostgresPreferenceRepository) ListCategories(ctx context.Context) ([]models.EmailCategory, error) {
	var categories []models.EmailCategory
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetOptedOutUserIDs performs the single batched preference lookup for a set
// of candidate recipients
func (r *PostgresPreferenceRepository) GetOptedOutUserIDs(ctx context.Context, categoryID uint, userIDs []uint) ([]uint, error) {
	var optedOut []uint
	if len(userIDs) == 0 {
		return optedOut, nil
	}
	err := r.db.WithContext(ctx).Model(&models.EmailPreference{}).
		Where("category_id = ? AND opted_out = ? AND user_id IN ?", categoryID, true, userIDs).
		Pluck("user_id", &optedOut).Error
	if err != nil {
		return nil, err
	}
	return optedOut, nil
}

// GetPreferencesForUser retrieves all preference rows for one user
func (r *PostgresPreferenceRepository) GetPreferencesForUser(ctx context.Context, userID uint) ([]models.EmailPreference, error) {
	var prefs []models.EmailPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// SetOptOut upserts the preference row for (user, category). Repeating the
// same toggle leaves the row unchanged, so token redemption is idempotent.
func (r *PostgresPreferenceRepository) SetOptOut(ctx context.Context, userID, categoryID uint, optedOut bool) error {
	pref := models.EmailPreference{
		UserID:     userID,
		CategoryID: categoryID,
		OptedOut:   optedOut,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"opted_out", "updated_at"}),
	}).Create(&pref).Error
}
