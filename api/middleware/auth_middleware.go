// api/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookshelf-backend/internal/auth"
	"github.com/Annany2002/bookshelf-backend/internal/logger"
	"github.com/Annany2002/bookshelf-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// APIKeyContextKey holds the validated bearer token in the gin context.
const APIKeyContextKey = "apiKey"

// APIKeyAuth guards a route with a bearer API key. It must run after Session.
// A missing or malformed header aborts with ErrMissingCredentials/ErrTokenMalformed
// before any lookup; an unknown key aborts with ErrForbidden.
func APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			customLog.Debugf("APIKeyAuth: rejected header: %v", err)
			_ = c.Error(err)
			c.Abort()
			return
		}

		_, err = storage.FindAPIKey(c.Request.Context(), GetSession(c), token)
		if err != nil {
			if errors.Is(err, storage.ErrAPIKeyNotFound) {
				customLog.Warnf("APIKeyAuth: unknown API key presented for %s %s", c.Request.Method, c.FullPath())
				_ = c.Error(auth.ErrForbidden)
			} else {
				_ = c.Error(fmt.Errorf("verify api key: %w", err))
			}
			c.Abort()
			return
		}

		c.Set(APIKeyContextKey, token)
		c.Next()
	}
}

// AdminSecretHeader carries the bootstrap secret for token minting.
const AdminSecretHeader = "X-Admin-Secret"

// AdminSecret gates a route behind the configured admin secret. The secret is
// bcrypt-hashed once here and only the hash is kept.
func AdminSecret(secret string) (gin.HandlerFunc, error) {
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		presented := c.GetHeader(AdminSecretHeader)
		if presented == "" {
			_ = c.Error(fmt.Errorf("%w: %s header required", auth.ErrMissingCredentials, AdminSecretHeader))
			c.Abort()
			return
		}
		if !auth.CheckSecretHash(presented, hash) {
			customLog.Warnf("AdminSecret: wrong admin secret for %s %s", c.Request.Method, c.FullPath())
			_ = c.Error(auth.ErrAdminSecretInvalid)
			c.Abort()
			return
		}
		c.Next()
	}, nil
}
