// api/middleware/error_handler.go
package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Annany2002/bookshelf-backend/api/models"
	"github.com/Annany2002/bookshelf-backend/internal/auth"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
// Handlers attach errors with c.Error and return; the last one decides the response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode, detail := classify(err)

		if statusCode == http.StatusInternalServerError {
			customLog.Errorf("[ErrorHandler] %s %s: unhandled error (%T): %v", c.Request.Method, c.Request.URL.Path, err, err)
		} else {
			customLog.Infof("[ErrorHandler] %s %s: %d %v", c.Request.Method, c.Request.URL.Path, statusCode, err)
		}

		if c.Writer.Written() {
			customLog.Warnln("[ErrorHandler] Response already written before handling error.")
			return
		}
		if statusCode == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Detail: detail})
	}
}

// classify maps an attached error to an HTTP status and a plain-text detail.
func classify(err error) (int, string) {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)

	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, auth.ErrTokenMalformed):
		return http.StatusUnauthorized, "Invalid authentication credentials"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "Invalid API Key"
	case errors.Is(err, auth.ErrAdminSecretInvalid):
		return http.StatusForbidden, "Invalid admin secret"
	case errors.Is(err, models.ErrEmptyBody):
		return http.StatusUnprocessableEntity, "Request body required"
	case errors.As(err, &validationErrs):
		missing := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			missing = append(missing, jsonFieldName(fe))
		}
		return http.StatusUnprocessableEntity, "Field required: " + strings.Join(missing, ", ")
	case errors.As(err, &typeErr):
		return http.StatusUnprocessableEntity, fmt.Sprintf("Field %q must be a %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusUnprocessableEntity, "Request body is not valid JSON"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// jsonFieldName lowercases the struct field name; request models use matching json tags.
func jsonFieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
