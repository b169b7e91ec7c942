// api/handlers/apikey_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookshelf-backend/api/middleware"
	"github.com/Annany2002/bookshelf-backend/api/models"
	"github.com/Annany2002/bookshelf-backend/internal/auth"
	"github.com/Annany2002/bookshelf-backend/internal/logger"
	"github.com/Annany2002/bookshelf-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// GenerateAPIKey mints a random key, stores it and returns it once.
func GenerateAPIKey(c *gin.Context) {
	key, err := auth.GenerateAPIKey()
	if err != nil {
		_ = c.Error(err)
		return
	}

	apiKey, err := storage.CreateAPIKey(c.Request.Context(), middleware.GetSession(c), key)
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Issued API key id=%d", apiKey.ID)
	c.JSON(http.StatusOK, models.GenerateAPIKeyResponse{APIKey: apiKey.Key})
}
