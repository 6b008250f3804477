package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shutterfolk/backend/internal/models"
	"gorm.io/gorm"
)

// Shared in-memory fakes for the service tests

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	for _, user := range r.users {
		if user.Nickname == nickname {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	for _, user := range r.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetActiveAdmins(ctx context.Context, excludeUserID uint) ([]models.User, error) {
	var admins []models.User
	for _, user := range r.users {
		if user.IsAdmin && !user.IsSuspended && user.ID != excludeUserID {
			admins = append(admins, *user)
		}
	}
	return admins, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateFCMToken(ctx context.Context, userID uint, token string) error {
	if user, ok := r.users[userID]; ok {
		user.FCMToken = token
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo(comments ...*models.Comment) *fakeCommentRepo {
	repo := &fakeCommentRepo{comments: make(map[string]*models.Comment)}
	for _, c := range comments {
		repo.comments[c.ID] = c
	}
	return repo
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	if comment, ok := r.comments[id]; ok {
		return comment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommentRepo) GetCommentsForEntity(ctx context.Context, entityType, entityID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range r.comments {
		if c.EntityType == entityType && c.EntityID == entityID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) SoftDeleteComment(ctx context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

type fakePhotoRepo struct {
	photos      map[string]*models.Photo
	firstAlbums map[string]*models.Album
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{
		photos:      make(map[string]*models.Photo),
		firstAlbums: make(map[string]*models.Album),
	}
}

func (r *fakePhotoRepo) GetPhotoByID(ctx context.Context, id string) (*models.Photo, error) {
	if photo, ok := r.photos[id]; ok {
		return photo, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePhotoRepo) GetFirstAlbumForPhoto(ctx context.Context, photoID string) (*models.Album, error) {
	if album, ok := r.firstAlbums[photoID]; ok {
		return album, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAlbumRepo struct {
	albums map[string]*models.Album
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{albums: make(map[string]*models.Album)}
}

func (r *fakeAlbumRepo) GetAlbumByID(ctx context.Context, id string) (*models.Album, error) {
	if album, ok := r.albums[id]; ok {
		return album, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEventRepo struct {
	events map[uint]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uint]*models.Event)}
}

func (r *fakeEventRepo) GetEventByID(ctx context.Context, id uint) (*models.Event, error) {
	if event, ok := r.events[id]; ok {
		return event, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeChallengeRepo struct {
	challenges map[string]*models.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[string]*models.Challenge)}
}

func (r *fakeChallengeRepo) GetChallengeByID(ctx context.Context, id string) (*models.Challenge, error) {
	if challenge, ok := r.challenges[id]; ok {
		return challenge, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePreferenceRepo struct {
	categories map[string]*models.EmailCategory
	// optedOut is keyed by category id, then user id
	optedOut map[uint]map[uint]bool

	categoryCalls int
	batchCalls    int
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{
		categories: make(map[string]*models.EmailCategory),
		optedOut:   make(map[uint]map[uint]bool),
	}
}

func (r *fakePreferenceRepo) addCategory(id uint, key string) {
	r.categories[key] = &models.EmailCategory{ID: id, Key: key}
}

func (r *fakePreferenceRepo) setOptOut(categoryID, userID uint, optedOut bool) {
	if r.optedOut[categoryID] == nil {
		r.optedOut[categoryID] = make(map[uint]bool)
	}
	r.optedOut[categoryID][userID] = optedOut
}

func (r *fakePreferenceRepo) GetCategoryByKey(ctx context.Context, key string) (*models.EmailCategory, error) {
	r.categoryCalls++
	if category, ok := r.categories[key]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePreferenceRepo) ListCategories(ctx context.Context) ([]models.EmailCategory, error) {
	var categories []models.EmailCategory
	for _, c := range r.categories {
		categories = append(categories, *c)
	}
	return categories, nil
}

func (r *fakePreferenceRepo) GetOptedOutUserIDs(ctx context.Context, categoryID uint, userIDs []uint) ([]uint, error) {
	r.batchCalls++
	var result []uint
	for _, id := range userIDs {
		if r.optedOut[categoryID][id] {
			result = append(result, id)
		}
	}
	return result, nil
}

func (r *fakePreferenceRepo) GetPreferencesForUser(ctx context.Context, userID uint) ([]models.EmailPreference, error) {
	var prefs []models.EmailPreference
	for categoryID, users := range r.optedOut {
		if optedOut, ok := users[userID]; ok {
			prefs = append(prefs, models.EmailPreference{UserID: userID, CategoryID: categoryID, OptedOut: optedOut})
		}
	}
	return prefs, nil
}

func (r *fakePreferenceRepo) SetOptOut(ctx context.Context, userID, categoryID uint, optedOut bool) error {
	r.setOptOut(categoryID, userID, optedOut)
	return nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = uint(len(r.created) + 1)
	r.created = append(r.created, notification)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationByID(ctx context.Context, id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Notification
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			result = append(result, *n)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.created {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.ID == notificationID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

// forRecipient returns the notifications created for one user
func (r *fakeNotificationRepo) forRecipient(recipientID uint) []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Notification
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	return result
}

type fakeDeliveryLogRepo struct {
	mu      sync.Mutex
	entries []*models.EmailDeliveryLog
}

func (r *fakeDeliveryLogRepo) RecordDelivery(ctx context.Context, entry *models.EmailDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeDeliveryLogRepo) GetByCommentID(ctx context.Context, commentID string) ([]models.EmailDeliveryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.EmailDeliveryLog
	for _, e := range r.entries {
		if e.CommentID == commentID {
			result = append(result, *e)
		}
	}
	return result, nil
}

// recordingEmailService captures sends and can be told to fail for specific
// addresses
type recordingEmailService struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func newRecordingEmailService() *recordingEmailService {
	return &recordingEmailService{failFor: make(map[string]bool)}
}

func (s *recordingEmailService) SendCommentEmail(to string, data CommentEmailData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[to] {
		return fmt.Errorf("smtp rejected %s", to)
	}
	s.sent = append(s.sent, to)
	return nil
}

func (s *recordingEmailService) sentTo() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// recordingCache captures invalidation calls
type recordingCache struct {
	mu        sync.Mutex
	profiles  []string
	galleries int
}

func (c *recordingCache) InvalidateProfile(ctx context.Context, nickname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles = append(c.profiles, nickname)
}

func (c *recordingCache) InvalidateGalleries(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.galleries++
}
