// api/handlers/book_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/bookshelf-backend/api/middleware"
	"github.com/Annany2002/bookshelf-backend/api/models"
	"github.com/Annany2002/bookshelf-backend/internal/storage"
)

// ListBooks returns every stored book.
func ListBooks(c *gin.Context) {
	books, err := storage.ListBooks(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook stores a book from a {title, content} body. A client-supplied id is ignored.
func CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = models.ErrEmptyBody
		}
		customLog.Warnf("CreateBook binding error: %v", err)
		_ = c.Error(err)
		return
	}

	book, err := storage.CreateBook(c.Request.Context(), middleware.GetSession(c), *req.Title, *req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Created book id=%d", book.ID)
	c.JSON(http.StatusOK, book)
}
