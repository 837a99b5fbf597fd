package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/weekly", h.GetWeeklyStats)
		stats.GET("/weekly/snapshot", h.GetSnapshot)
		stats.GET("/streaks", h.GetStreaks)
		stats.GET("/calendar", h.GetCalendar)
	}
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + ", expected an integer"})
		return 0, false
	}
	return v, true
}

// GetWeeklyStats godoc
// @Summary  Summary of the window of `days` days ending at `end_date`
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Param    end_date query string false "YYYY-MM-DD, default today"
// @Param    days     query int    false "window length, 1..366"
// @Success  200 {object} domain.WeeklyStatsSummary
// @Failure  400 {object} map[string]string
// @Router   /stats/weekly [get]
func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	if days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be positive"})
		return
	}

	summary, err := h.svc.GetWeeklyStats(c.Request.Context(), domain.StatsInput{
		UserID:  userID,
		EndDate: c.Query("end_date"),
		Days:    days,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StatsHandler) GetSnapshot(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.svc.GetSnapshot(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *StatsHandler) GetStreaks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	streaks, err := h.svc.GetStreaks(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, streaks)
}

// GetCalendar godoc
// @Summary  Monday-first month grid with day statuses and week chips
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Param    year  query int false "default current year"
// @Param    month query int false "1..12, default current month"
// @Success  200 {object} domain.MonthCalendar
// @Router   /stats/calendar [get]
func (h *StatsHandler) GetCalendar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}

	cal, err := h.svc.GetCalendar(c.Request.Context(), userID, year, month)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}
