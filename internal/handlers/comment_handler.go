package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
	"github.com/shutterfolk/backend/internal/services"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments. Creation drives
// the notification routing pipeline; only validation and persistence
// failures are surfaced to the client.
type CommentHandler struct {
	commentRepository   repositories.CommentRepository
	photoRepository     repositories.PhotoRepository
	albumRepository     repositories.AlbumRepository
	eventRepository     repositories.EventRepository
	challengeRepository repositories.ChallengeRepository
	userRepository      repositories.UserRepository
	notifications       *services.CommentNotificationService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	photoRepo repositories.PhotoRepository,
	albumRepo repositories.AlbumRepository,
	eventRepo repositories.EventRepository,
	challengeRepo repositories.ChallengeRepository,
	userRepo repositories.UserRepository,
	notifications *services.CommentNotificationService,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:   commentRepo,
		photoRepository:     photoRepo,
		albumRepository:     albumRepo,
		eventRepository:     eventRepo,
		challengeRepository: challengeRepo,
		userRepository:      userRepo,
		notifications:       notifications,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment validates and persists a new comment, then routes its
// notifications. The response reflects the comment row only: once it is
// persisted, the request succeeds no matter what happens downstream.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text must not be empty")
	}

	// Verify the commented entity exists. Event ids must parse as numbers;
	// the other entity kinds use opaque identifiers.
	entityID := req.EntityID
	ctx := c.Request().Context()
	switch req.EntityType {
	case models.EntityTypePhoto:
		if _, err := h.photoRepository.GetPhotoByID(ctx, entityID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Photo not found")
		}
	case models.EntityTypeAlbum:
		if _, err := h.albumRepository.GetAlbumByID(ctx, entityID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Album not found")
		}
	case models.EntityTypeEvent:
		numericID, err := strconv.ParseUint(entityID, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid event ID")
		}
		if _, err := h.eventRepository.GetEventByID(ctx, uint(numericID)); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Event not found")
		}
		entityID = strconv.FormatUint(numericID, 10)
	case models.EntityTypeChallenge:
		if _, err := h.challengeRepository.GetChallengeByID(ctx, entityID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Challenge not found")
		}
	}

	user, err := h.userRepository.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	comment := &models.Comment{
		ID:         uuid.New().String(),
		EntityType: req.EntityType,
		EntityID:   entityID,
		UserID:     user.ID,
		Content:    content,
		ParentID:   req.ParentID,
	}

	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Everything past this point is best-effort and must not change the
	// response; the fan-out runs within this request, no background queue.
	h.notifications.RouteNotifications(ctx, comment, user)

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"comment_id": comment.ID,
	})
}

// GetComments retrieves all comments for a specific entity
func (h *CommentHandler) GetComments(c echo.Context) error {
	entityType := c.QueryParam("entity_type")
	entityID := c.QueryParam("entity_id")
	if !models.IsValidEntityType(entityType) || entityID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "entity_type and entity_id are required")
	}

	comments, err := h.commentRepository.GetCommentsForEntity(c.Request().Context(), entityType, entityID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comments)
}

// DeleteComment soft-deletes a comment. The caller must be the comment's
// author or an admin. Already-sent notifications are not retracted.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID := c.Param("id")
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != claims.UserID && !claims.IsAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.SoftDeleteComment(c.Request().Context(), commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
