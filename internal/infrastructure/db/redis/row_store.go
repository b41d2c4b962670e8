package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

const rowKeyPrefix = "import:rows:"

// RowStore keeps the full parsed row set of a pending import session in Redis
// so it never touches permanent storage. Rows expire on their own if the
// commit never arrives.
type RowStore struct {
	client *redis.Client
}

func NewRowStore(client *redis.Client) *RowStore {
	return &RowStore{client: client}
}

func (s *RowStore) SaveRows(ctx context.Context, sessionID string, rows []domain.ImportRow, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal import rows: %w", err)
	}

	if err := s.client.Set(ctx, rowKey(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save import rows: %w", err)
	}
	return nil
}

func (s *RowStore) LoadRows(ctx context.Context, sessionID string) ([]domain.ImportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := s.client.Get(ctx, rowKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load import rows: %w", err)
	}

	var rows []domain.ImportRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal import rows: %w", err)
	}
	return rows, nil
}

func (s *RowStore) DeleteRows(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.client.Del(ctx, rowKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete import rows: %w", err)
	}
	return nil
}

func rowKey(sessionID string) string {
	return rowKeyPrefix + sessionID
}
