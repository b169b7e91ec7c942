// internal/storage/book_repo.go
package storage

import (
	"context"
	"fmt"

	"github.com/Annany2002/bookshelf-backend/internal/domain"
)

// CreateBook inserts a book and returns it with the assigned id.
func CreateBook(ctx context.Context, q Querier, title, content string) (*domain.Book, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO books (title, content) VALUES (?, ?)`, title, content)
	if err != nil {
		customLog.Warnf("Storage: Failed to insert book %q: %s", title, describeError(err))
		return nil, fmt.Errorf("database error during book creation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		customLog.Warnf("Storage: Failed to get last insert ID for book %q: %v", title, err)
		return nil, fmt.Errorf("failed to retrieve book ID after creation: %w", err)
	}

	return &domain.Book{ID: id, Title: title, Content: content}, nil
}

// ListBooks returns every stored book. No ordering is applied.
func ListBooks(ctx context.Context, q Querier) ([]domain.Book, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title, content FROM books`)
	if err != nil {
		customLog.Warnf("Storage: Error listing books: %s", describeError(err))
		return nil, fmt.Errorf("database error listing books: %w", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var book domain.Book
		if err := rows.Scan(&book.ID, &book.Title, &book.Content); err != nil {
			customLog.Warnf("Storage: Error scanning book row: %v", err)
			return nil, fmt.Errorf("failed processing book list: %w", err)
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating book rows: %v", err)
		return nil, fmt.Errorf("failed reading book list: %w", err)
	}

	return books, nil
}
