// internal/domain/models.go
package domain

// APIKey is an issued bearer token. Rows are never updated or deleted.
type APIKey struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// Book is a stored book record.
type Book struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
