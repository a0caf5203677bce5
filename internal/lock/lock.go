package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Manager provides job-level mutual exclusion across any number of worker
// replicas using Postgres advisory locks. Advisory locks are session
// scoped, so each held lock pins one pool connection until released.
type Manager struct {
	pool *pgxpool.Pool

	mu   sync.Mutex
	held map[string]*pgxpool.Conn
}

// NewManager creates a lock manager on top of the shared connection pool.
func NewManager(pool *pgxpool.Pool) *Manager {
	return &Manager{
		pool: pool,
		held: make(map[string]*pgxpool.Conn),
	}
}

// Key hashes a job name to the 64-bit integer Postgres advisory locks
// require. Collisions between distinct job names are an accepted, logged
// risk, not something the manager defends against.
func Key(jobName string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(jobName))
	return int64(h.Sum64())
}

// TryAcquire attempts to take the lock for jobName without blocking.
// It returns false when another session already holds it; the caller must
// skip the run rather than wait.
func (m *Manager) TryAcquire(ctx context.Context, jobName string) (bool, error) {
	m.mu.Lock()
	if _, ok := m.held[jobName]; ok {
		m.mu.Unlock()
		return false, nil
	}
	m.mu.Unlock()

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire connection for lock: %w", err)
	}

	key := Key(jobName)
	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&acquired); err != nil {
		conn.Release()
		return false, fmt.Errorf("failed to try advisory lock: %w", err)
	}

	if !acquired {
		conn.Release()
		log.Debug().
			Str("job", jobName).
			Int64("key", key).
			Msg("Advisory lock already held, skipping run")
		return false, nil
	}

	m.mu.Lock()
	m.held[jobName] = conn
	m.mu.Unlock()

	log.Debug().
		Str("job", jobName).
		Int64("key", key).
		Msg("Advisory lock acquired")
	return true, nil
}

// Release frees the lock for jobName and returns its connection to the pool.
// The unlock runs on a cancellation-proof context so a job aborted mid-run
// still frees its lock instead of leaving a dead session holding it.
func (m *Manager) Release(ctx context.Context, jobName string) error {
	m.mu.Lock()
	conn, ok := m.held[jobName]
	delete(m.held, jobName)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	defer conn.Release()

	ctx = context.WithoutCancel(ctx)
	key := Key(jobName)
	var released bool
	if err := conn.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&released); err != nil {
		return fmt.Errorf("failed to release advisory lock: %w", err)
	}
	if !released {
		log.Warn().
			Str("job", jobName).
			Int64("key", key).
			Msg("Advisory unlock reported lock not held")
	}
	return nil
}

// WithLock runs fn only if the lock could be acquired, releasing it on
// every exit path. The returned bool reports whether fn ran.
func (m *Manager) WithLock(ctx context.Context, jobName string, fn func(ctx context.Context) error) (bool, error) {
	acquired, err := m.TryAcquire(ctx, jobName)
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}

	defer func() {
		if err := m.Release(ctx, jobName); err != nil {
			log.Error().Err(err).Str("job", jobName).Msg("Failed to release advisory lock")
		}
	}()

	return true, fn(ctx)
}
