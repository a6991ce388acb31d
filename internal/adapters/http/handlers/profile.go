package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuelquote/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// ProfileService is the profile use case surface the handler needs.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.DeliveryProfile, error)
	Save(ctx context.Context, userID string, profile domain.DeliveryProfile) (*domain.DeliveryProfile, error)
}

// ProfileHandler handles the caller's delivery profile.
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /api/v1/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

// Save handles POST and PUT /api/v1/profile. Both replace the whole profile.
func (h *ProfileHandler) Save(c *gin.Context) {
	var req dto.ProfileRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RespondBadRequest(c, "request body must be a JSON object")
		return
	}

	profile, err := h.service.Save(c.Request.Context(), middleware.UserID(c), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

// RegisterProfileRoutes registers profile routes on the given router group.
func (h *ProfileHandler) RegisterProfileRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Get)
	rg.POST("/profile", h.Save)
	rg.PUT("/profile", h.Save)
}
