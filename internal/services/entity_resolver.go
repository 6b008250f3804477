package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
	"gorm.io/gorm"
)

// ErrEntityNotFound is returned when the commented entity does not exist
var ErrEntityNotFound = errors.New("entity not found")

// ResolvedEntity carries the facts notification routing needs about a
// commented entity: display data, a canonical link, and who owns it.
// Owner is set for single-owner entities (photo, album) and may be nil for
// system-managed albums. Admins is set for admin-owned entities (event,
// challenge) and already excludes suspended accounts and the comment author.
type ResolvedEntity struct {
	Title        string
	ThumbnailURL string
	Link         string
	Owner        *models.User
	Admins       []models.User
}

// EntityResolver loads the minimal routing facts for each entity kind
type EntityResolver struct {
	photoRepo     repositories.PhotoRepository
	albumRepo     repositories.AlbumRepository
	eventRepo     repositories.EventRepository
	challengeRepo repositories.ChallengeRepository
	userRepo      repositories.UserRepository
	siteURL       string
}

// NewEntityResolver creates a new EntityResolver
func NewEntityResolver(
	photoRepo repositories.PhotoRepository,
	albumRepo repositories.AlbumRepository,
	eventRepo repositories.EventRepository,
	challengeRepo repositories.ChallengeRepository,
	userRepo repositories.UserRepository,
	siteURL string,
) *EntityResolver {
	return &EntityResolver{
		photoRepo:     photoRepo,
		albumRepo:     albumRepo,
		eventRepo:     eventRepo,
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		siteURL:       strings.TrimRight(siteURL, "/"),
	}
}

// Resolve loads title, thumbnail, link and owning identity for the entity.
// actorID is the commenting user, excluded from admin groups.
func (r *EntityResolver) Resolve(ctx context.Context, entityType, entityID string, actorID uint) (*ResolvedEntity, error) {
	switch entityType {
	case models.EntityTypePhoto:
		return r.resolvePhoto(ctx, entityID)
	case models.EntityTypeAlbum:
		return r.resolveAlbum(ctx, entityID)
	case models.EntityTypeEvent:
		return r.resolveEvent(ctx, entityID, actorID)
	case models.EntityTypeChallenge:
		return r.resolveChallenge(ctx, entityID, actorID)
	default:
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}
}

func (r *EntityResolver) resolvePhoto(ctx context.Context, photoID string) (*ResolvedEntity, error) {
	photo, err := r.photoRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	resolved := &ResolvedEntity{
		Title:        photo.Title,
		ThumbnailURL: photo.ThumbnailURL,
	}

	owner, err := r.userRepo.GetUserByID(ctx, photo.UserID)
	if err != nil {
		// Orphaned photo; routing degrades to no owner notification
		log.Printf("Entity resolver: owner %d of photo %s not found: %v", photo.UserID, photoID, err)
		return resolved, nil
	}
	resolved.Owner = owner

	// Without a public handle there is no profile URL to link into
	if owner.Nickname == "" {
		return resolved, nil
	}

	// Prefer a deep link through the first containing album; a standalone
	// photo link is the fallback and an album lookup error must not fail
	// the whole operation.
	album, err := r.photoRepo.GetFirstAlbumForPhoto(ctx, photoID)
	switch {
	case err == nil:
		resolved.Link = fmt.Sprintf("%s/u/%s/albums/%s/photos/%s", r.siteURL, owner.Nickname, album.ID, photo.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		resolved.Link = fmt.Sprintf("%s/u/%s/photos/%s", r.siteURL, owner.Nickname, photo.ID)
	default:
		log.Printf("Entity resolver: album lookup for photo %s failed: %v", photoID, err)
		resolved.Link = fmt.Sprintf("%s/u/%s/photos/%s", r.siteURL, owner.Nickname, photo.ID)
	}
	return resolved, nil
}

func (r *EntityResolver) resolveAlbum(ctx context.Context, albumID string) (*ResolvedEntity, error) {
	album, err := r.albumRepo.GetAlbumByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	resolved := &ResolvedEntity{
		Title:        album.Title,
		ThumbnailURL: album.CoverURL,
	}

	// System/event albums have no owner; owner notification is skipped
	if album.UserID == nil {
		return resolved, nil
	}

	owner, err := r.userRepo.GetUserByID(ctx, *album.UserID)
	if err != nil {
		log.Printf("Entity resolver: owner %d of album %s not found: %v", *album.UserID, albumID, err)
		return resolved, nil
	}
	resolved.Owner = owner

	if owner.Nickname != "" {
		resolved.Link = fmt.Sprintf("%s/u/%s/albums/%s", r.siteURL, owner.Nickname, album.ID)
	}
	return resolved, nil
}

func (r *EntityResolver) resolveEvent(ctx context.Context, entityID string, actorID uint) (*ResolvedEntity, error) {
	id, err := strconv.ParseUint(entityID, 10, 64)
	if err != nil {
		return nil, ErrEntityNotFound
	}

	event, err := r.eventRepo.GetEventByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	admins, err := r.userRepo.GetActiveAdmins(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &ResolvedEntity{
		Title:        event.Title,
		ThumbnailURL: event.CoverURL,
		Link:         fmt.Sprintf("%s/events/%s", r.siteURL, event.Slug),
		Admins:       admins,
	}, nil
}

func (r *EntityResolver) resolveChallenge(ctx context.Context, challengeID string, actorID uint) (*ResolvedEntity, error) {
	challenge, err := r.challengeRepo.GetChallengeByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	admins, err := r.userRepo.GetActiveAdmins(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &ResolvedEntity{
		Title:        challenge.Title,
		ThumbnailURL: challenge.CoverURL,
		Link:         fmt.Sprintf("%s/challenges/%s", r.siteURL, challenge.Slug),
		Admins:       admins,
	}, nil
}
