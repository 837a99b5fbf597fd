package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-kcal/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/stats"
)

var badRequestErrors = []error{
	domain.ErrInvalidDate,
	domain.ErrInvalidKcal,
	domain.ErrDuplicateDate,
	domain.ErrInvalidWindow,
	domain.ErrInvalidEntry,
	domain.ErrEntryNameRequired,
	domain.ErrInvalidUnits,
	domain.ErrInvalidMeal,
	domain.ErrEmptyLog,
	domain.ErrInvalidSex,
	domain.ErrInvalidActivity,
	domain.ErrInvalidAge,
	domain.ErrInvalidWeight,
	domain.ErrInvalidHeight,
	domain.ErrInvalidMacros,
	domain.ErrProfileNameEmpty,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	stats.ErrInvalidWindowLength,
	stats.ErrInvalidMonth,
}

func handleError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrLogNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrLogConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})

	default:
		slog.Error("[ERROR] Request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return "", false
	}
	return userID, true
}
