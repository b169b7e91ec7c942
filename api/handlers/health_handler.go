// api/handlers/health_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookshelf-backend/api/models"
)

// Ping reports whether the backing store answers.
func Ping(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			customLog.Warnf("DB Ping error during /ping request: %v", err)
			c.JSON(http.StatusServiceUnavailable, models.PingResponse{Message: "pong, but DB connection error"})
			return
		}
		c.JSON(http.StatusOK, models.PingResponse{Message: "pong"})
	}
}
