package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type profileRequest struct {
	Name     string             `json:"name" binding:"required"`
	Sex      string             `json:"sex" binding:"required"`
	Age      int                `json:"age" binding:"required"`
	WeightKg float64            `json:"weight_kg" binding:"required"`
	HeightCm float64            `json:"height_cm" binding:"required"`
	Activity string             `json:"activity" binding:"required"`
	Macros   *domain.MacroSplit `json:"macros"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.Get)
	router.PUT("/profile", h.Save)
}

// Get godoc
// @Summary  Current profile with its daily kcal target
// @Tags     profile
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} domain.Profile
// @Failure  404 {object} map[string]string
// @Router   /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Save godoc
// @Summary  Create or replace the profile; the TDEE is recomputed
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body profileRequest true "profile"
// @Success  200 {object} domain.Profile
// @Failure  400 {object} map[string]string
// @Router   /profile [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.Save(c.Request.Context(), userID, domain.ProfileParams{
		Name:     req.Name,
		Sex:      domain.Sex(req.Sex),
		Age:      req.Age,
		WeightKg: req.WeightKg,
		HeightCm: req.HeightCm,
		Activity: domain.ActivityLevel(req.Activity),
		Macros:   req.Macros,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
