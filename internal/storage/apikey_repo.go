// internal/storage/apikey_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Annany2002/bookshelf-backend/internal/domain"
)

var (
	ErrAPIKeyNotFound = errors.New("api key not found")
)

// CreateAPIKey stores a new API key row and returns it with its assigned id.
// Keys are not checked against existing rows.
func CreateAPIKey(ctx context.Context, q Querier, key string) (*domain.APIKey, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO api_keys (key) VALUES (?)`, key)
	if err != nil {
		customLog.Warnf("Storage: Failed to store API key: %s", describeError(err))
		return nil, fmt.Errorf("database error storing API key: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		customLog.Warnf("Storage: Failed to get last insert ID for API key: %v", err)
		return nil, fmt.Errorf("failed to retrieve API key ID after creation: %w", err)
	}

	return &domain.APIKey{ID: id, Key: key}, nil
}

// FindAPIKey looks up a key by exact match. The lowest id wins if the value was stored twice.
func FindAPIKey(ctx context.Context, q Querier, key string) (*domain.APIKey, error) {
	row := q.QueryRowContext(ctx, `SELECT id, key FROM api_keys WHERE key = ? ORDER BY id LIMIT 1`, key)

	var apiKey domain.APIKey
	if err := row.Scan(&apiKey.ID, &apiKey.Key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		customLog.Warnf("Storage: Failed to look up API key: %s", describeError(err))
		return nil, fmt.Errorf("database error finding API key: %w", err)
	}
	return &apiKey, nil
}
