package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
)

type IntakeHandler struct {
	svc *services.IntakeService
}

func NewIntakeHandler(svc *services.IntakeService) *IntakeHandler {
	return &IntakeHandler{svc: svc}
}

type addEntryRequest struct {
	DateISO     string    `json:"date"`
	FoodID      string    `json:"food_id"`
	CustomName  string    `json:"custom_name"`
	KcalPerUnit float64   `json:"kcal_per_unit"`
	Units       float64   `json:"units" binding:"required"`
	ConsumedAt  time.Time `json:"consumed_at"`
	Meal        string    `json:"meal"`
}

type updateEntryRequest struct {
	DateISO string  `json:"date"`
	Units   float64 `json:"units" binding:"required"`
	Version int     `json:"version"`
}

func (h *IntakeHandler) RegisterRoutes(router *gin.RouterGroup) {
	intake := router.Group("/intake")
	{
		intake.GET("/days", h.ListDays)
		intake.GET("/days/:date", h.GetDay)
		intake.POST("/days/:date/reset", h.ResetDay)
		intake.POST("/days/:date/undo", h.UndoLast)
		intake.POST("/entries", h.AddEntry)
		intake.PUT("/entries/:id", h.UpdateEntry)
		intake.DELETE("/entries/:id", h.DeleteEntry)
		intake.GET("/sync", h.Sync)
	}
}

// AddEntry godoc
// @Summary  Log a food intake; the day defaults to today in the reporting zone
// @Tags     intake
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body addEntryRequest true "entry"
// @Success  201 {object} domain.DailyLog
// @Failure  400 {object} map[string]string
// @Router   /intake/entries [post]
func (h *IntakeHandler) AddEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.svc.AddEntry(c.Request.Context(), services.AddEntryInput{
		UserID:      userID,
		DateISO:     req.DateISO,
		FoodID:      req.FoodID,
		CustomName:  req.CustomName,
		KcalPerUnit: req.KcalPerUnit,
		Units:       req.Units,
		ConsumedAt:  req.ConsumedAt,
		Meal:        domain.MealSlot(req.Meal),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (h *IntakeHandler) UpdateEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := req.DateISO
	if date == "" {
		date = c.Query("date")
	}

	log, err := h.svc.UpdateEntryUnits(c.Request.Context(), services.UpdateEntryInput{
		UserID:  userID,
		DateISO: date,
		EntryID: c.Param("id"),
		Units:   req.Units,
		Version: req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *IntakeHandler) DeleteEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	log, err := h.svc.DeleteEntry(c.Request.Context(), userID, c.Query("date"), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *IntakeHandler) GetDay(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	log, err := h.svc.GetDay(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// ListDays accepts either ?dates=a,b,c or an inclusive ?from=&to= range.
func (h *IntakeHandler) ListDays(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var (
		logs []domain.DailyLog
		err  error
	)
	switch {
	case c.Query("dates") != "":
		logs, err = h.svc.ListDays(c.Request.Context(), userID, strings.Split(c.Query("dates"), ","))
	case c.Query("from") != "" && c.Query("to") != "":
		logs, err = h.svc.ListRange(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either dates or from and to are required"})
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *IntakeHandler) ResetDay(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	log, err := h.svc.ResetDay(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *IntakeHandler) UndoLast(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	log, err := h.svc.UndoLast(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *IntakeHandler) Sync(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		var err error
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since format, use RFC3339"})
			return
		}
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, since)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}
