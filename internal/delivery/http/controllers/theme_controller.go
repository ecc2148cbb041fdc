package controllers

import (
	"log/slog"
	"net/http"

	h "joiny/internal/delivery/http/helpers"
	"joiny/internal/domain"
)

type ThemeController struct {
	Logger  *slog.Logger
	Service domain.ThemeService
}

func NewThemeController(logger *slog.Logger, svc domain.ThemeService) *ThemeController {
	return &ThemeController{
		Logger:  logger,
		Service: svc,
	}
}

// ListThemes godoc
// @Summary List themes
// @Tags themes
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the themes"
// @Router /themes/ [get]
func (c *ThemeController) ListThemes(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// GetTheme godoc
// @Summary Get a theme
// @Tags themes
// @Produce json
// @Param id path int true "Theme ID"
// @Success 200 {object} helpers.APIResponse "data contains the theme"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /themes/{id}/ [get]
func (c *ThemeController) GetTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	theme, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, theme)
}
