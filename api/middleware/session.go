// api/middleware/session.go
package middleware

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
)

const sessionKey = "dbSession"

// Session checks one connection out of the pool for the lifetime of the request.
// The connection is returned to the pool when the handler chain finishes,
// including when a later handler aborts or panics.
func Session(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := db.Conn(c.Request.Context())
		if err != nil {
			customLog.Warnf("Session: Failed to acquire database connection: %v", err)
			_ = c.Error(fmt.Errorf("acquire session: %w", err))
			c.Abort()
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				customLog.Warnf("Session: Failed to release database connection: %v", err)
			}
		}()

		c.Set(sessionKey, conn)
		c.Next()
	}
}

// GetSession returns the request-scoped connection set by Session.
// It panics if Session is not in the chain, which is a wiring bug.
func GetSession(c *gin.Context) *sql.Conn {
	return c.MustGet(sessionKey).(*sql.Conn)
}
