package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lk16/reversi/internal/models"
)

// MemorySessionRepository is a SessionRepository replacement for running without Redis.
type MemorySessionRepository struct {
	// sessions maps session ID to info
	sessions map[string]models.SessionInfo

	// ttl is the idle time after which entries are dropped
	ttl time.Duration

	// sessionsMutex protects sessions
	sessionsMutex sync.Mutex
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]models.SessionInfo),
		ttl:      ttl,
	}
}

func (repo *MemorySessionRepository) Upsert(_ context.Context, info models.SessionInfo) error {
	repo.sessionsMutex.Lock()
	defer repo.sessionsMutex.Unlock()

	repo.sessions[info.ID] = info
	return nil
}

func (repo *MemorySessionRepository) Remove(_ context.Context, id string) error {
	repo.sessionsMutex.Lock()
	defer repo.sessionsMutex.Unlock()

	delete(repo.sessions, id)
	return nil
}

func (repo *MemorySessionRepository) List(_ context.Context) ([]models.SessionInfo, error) {
	repo.sessionsMutex.Lock()
	defer repo.sessionsMutex.Unlock()

	cutoff := time.Now().Add(-repo.ttl)

	sessions := make([]models.SessionInfo, 0, len(repo.sessions))
	for id, info := range repo.sessions {
		if info.LastActive.Before(cutoff) {
			delete(repo.sessions, id)
			continue
		}
		sessions = append(sessions, info)
	}

	sortSessions(sessions)
	return sessions, nil
}

// MemoryResultRepository is a ResultRepository replacement for running without Postgres.
type MemoryResultRepository struct {
	// results contains all results, oldest first
	results []models.Result

	// resultsMutex protects results
	resultsMutex sync.Mutex
}

func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{}
}

func (repo *MemoryResultRepository) SaveResult(_ context.Context, result models.Result) error {
	repo.resultsMutex.Lock()
	defer repo.resultsMutex.Unlock()

	for _, r := range repo.results {
		if r.SessionID == result.SessionID {
			return nil
		}
	}

	repo.results = append(repo.results, result)
	return nil
}

func (repo *MemoryResultRepository) GetStats(_ context.Context) (models.ResultStats, error) {
	repo.resultsMutex.Lock()
	defer repo.resultsMutex.Unlock()

	var stats models.ResultStats
	for _, result := range repo.results {
		stats.Add(result)
	}
	return stats, nil
}

func (repo *MemoryResultRepository) GetRecentResults(_ context.Context, limit int) ([]models.Result, error) {
	repo.resultsMutex.Lock()
	defer repo.resultsMutex.Unlock()

	results := make([]models.Result, len(repo.results))
	copy(results, repo.results)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinishedAt.After(results[j].FinishedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
