package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
	"github.com/shutterfolk/backend/internal/services"
	"gorm.io/gorm"
)

// PreferencesHandler handles email preference reads, updates, and the public
// one-click unsubscribe endpoint
type PreferencesHandler struct {
	preferenceRepository repositories.PreferenceRepository
	tokens               *services.OptOutTokenService
}

// NewPreferencesHandler creates a new PreferencesHandler
func NewPreferencesHandler(preferenceRepo repositories.PreferenceRepository, tokens *services.OptOutTokenService) *PreferencesHandler {
	return &PreferencesHandler{
		preferenceRepository: preferenceRepo,
		tokens:               tokens,
	}
}

// RegisterPreferenceRoutes registers the authenticated preference routes
func (h *PreferencesHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("/preferences", h.GetPreferences)
	g.PUT("/preferences", h.UpdatePreference)
}

// RegisterPublicRoutes registers the unauthenticated unsubscribe route
func (h *PreferencesHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/unsubscribe/:token", h.Unsubscribe)
}

// GetPreferences lists every email category with the caller's effective
// opt-out state. Categories without a stored row report opted_out false.
func (h *PreferencesHandler) GetPreferences(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	categories, err := h.preferenceRepository.ListCategories(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	prefs, err := h.preferenceRepository.GetPreferencesForUser(ctx, claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	optedOut := make(map[uint]bool, len(prefs))
	for _, pref := range prefs {
		optedOut[pref.CategoryID] = pref.OptedOut
	}

	type preferenceView struct {
		EmailType string `json:"email_type"`
		OptedOut  bool   `json:"opted_out"`
	}
	views := make([]preferenceView, 0, len(categories))
	for _, category := range categories {
		views = append(views, preferenceView{
			EmailType: category.Key,
			OptedOut:  optedOut[category.ID],
		})
	}

	return c.JSON(http.StatusOK, views)
}

// UpdatePreference sets the caller's opt-out flag for one email category
func (h *PreferencesHandler) UpdatePreference(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePreferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	category, err := h.preferenceRepository.GetCategoryByKey(ctx, req.EmailType)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown email type")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.preferenceRepository.SetOptOut(ctx, claims.UserID, category.ID, req.OptedOut); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email_type": category.Key,
		"opted_out":  req.OptedOut,
	})
}

// Unsubscribe redeems an opt-out token from an email link. No login is
// required; the token itself proves the request. Redeeming the same token
// twice is harmless.
func (h *PreferencesHandler) Unsubscribe(c echo.Context) error {
	payload, err := h.tokens.Decrypt(c.Param("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired unsubscribe link")
	}

	ctx := c.Request().Context()
	category, err := h.preferenceRepository.GetCategoryByKey(ctx, payload.EmailType)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown email type")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.preferenceRepository.SetOptOut(ctx, payload.UserID, category.ID, true); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"email_type": category.Key,
		"message":    "You have been unsubscribed from these emails",
	})
}
