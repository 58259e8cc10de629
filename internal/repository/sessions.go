package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/lk16/reversi/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	SessionsKey = "sessions"
)

// SessionRepository keeps an index of live game sessions in a Redis hash.
// Entries that were not refreshed within ttl are dropped when listing.
type SessionRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		redis: client,
		ttl:   ttl,
	}
}

// Upsert adds or refreshes a session entry.
func (repo *SessionRepository) Upsert(ctx context.Context, info models.SessionInfo) error {
	jsonData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("error marshaling session info: %w", err)
	}

	pipe := repo.redis.TxPipeline()
	pipe.HSet(ctx, SessionsKey, info.ID, jsonData)
	pipe.Expire(ctx, SessionsKey, repo.ttl)

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error storing session: %w", err)
	}

	return nil
}

// Remove deletes a session entry.
func (repo *SessionRepository) Remove(ctx context.Context, id string) error {
	if err := repo.redis.HDel(ctx, SessionsKey, id).Err(); err != nil {
		return fmt.Errorf("error removing session: %w", err)
	}
	return nil
}

// List returns all live sessions, most recently active first.
func (repo *SessionRepository) List(ctx context.Context) ([]models.SessionInfo, error) {
	entries, err := repo.redis.HGetAll(ctx, SessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting sessions: %w", err)
	}

	cutoff := time.Now().Add(-repo.ttl)

	sessions := make([]models.SessionInfo, 0, len(entries))
	var expired []string

	for id, jsonData := range entries {
		var info models.SessionInfo
		if err := json.Unmarshal([]byte(jsonData), &info); err != nil {
			return nil, fmt.Errorf("error unmarshaling session info: %w", err)
		}

		if info.LastActive.Before(cutoff) {
			expired = append(expired, id)
			continue
		}

		sessions = append(sessions, info)
	}

	if len(expired) > 0 {
		if err := repo.redis.HDel(ctx, SessionsKey, expired...).Err(); err != nil {
			return nil, fmt.Errorf("error removing expired sessions: %w", err)
		}
	}

	sortSessions(sessions)
	return sessions, nil
}

// sortSessions sorts such that the most recently active sessions are first.
func sortSessions(sessions []models.SessionInfo) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActive.After(sessions[j].LastActive)
	})
}
