package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shutterfolk/backend/internal/repositories"
)

// GalleryHandler serves read-only views of the commentable entities
type GalleryHandler struct {
	photoRepository     repositories.PhotoRepository
	albumRepository     repositories.AlbumRepository
	eventRepository     repositories.EventRepository
	challengeRepository repositories.ChallengeRepository
	deliveryLog         repositories.DeliveryLogRepository
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(
	photoRepo repositories.PhotoRepository,
	albumRepo repositories.AlbumRepository,
	eventRepo repositories.EventRepository,
	challengeRepo repositories.ChallengeRepository,
	deliveryLog repositories.DeliveryLogRepository,
) *GalleryHandler {
	return &GalleryHandler{
		photoRepository:     photoRepo,
		albumRepository:     albumRepo,
		eventRepository:     eventRepo,
		challengeRepository: challengeRepo,
		deliveryLog:         deliveryLog,
	}
}

// RegisterGalleryRoutes registers the public entity read routes
func (h *GalleryHandler) RegisterGalleryRoutes(g *echo.Group) {
	g.GET("/photos/:id", h.GetPhoto)
	g.GET("/albums/:id", h.GetAlbum)
	g.GET("/events/:id", h.GetEvent)
	g.GET("/challenges/:id", h.GetChallenge)
}

// RegisterAdminRoutes registers the admin-only delivery log route
func (h *GalleryHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/comments/:id/deliveries", h.GetCommentDeliveries)
}

// GetPhoto retrieves a photo by ID
func (h *GalleryHandler) GetPhoto(c echo.Context) error {
	photo, err := h.photoRepository.GetPhotoByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Photo not found")
	}
	return c.JSON(http.StatusOK, photo)
}

// GetAlbum retrieves an album by ID
func (h *GalleryHandler) GetAlbum(c echo.Context) error {
	album, err := h.albumRepository.GetAlbumByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Album not found")
	}
	return c.JSON(http.StatusOK, album)
}

// GetEvent retrieves an event by its numeric ID
func (h *GalleryHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event ID")
	}

	event, err := h.eventRepository.GetEventByID(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	return c.JSON(http.StatusOK, event)
}

// GetChallenge retrieves a challenge by ID
func (h *GalleryHandler) GetChallenge(c echo.Context) error {
	challenge, err := h.challengeRepository.GetChallengeByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Challenge not found")
	}
	return c.JSON(http.StatusOK, challenge)
}

// GetCommentDeliveries lists the recorded email delivery outcomes for one
// comment. Admin only.
func (h *GalleryHandler) GetCommentDeliveries(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if !claims.IsAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	entries, err := h.deliveryLog.GetByCommentID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, entries)
}
