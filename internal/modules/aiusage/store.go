package aiusage

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore handles ai_usage persistence in Postgres.
type PGStore struct {
	db        *pgxpool.Pool
	allowance int
	now       func() time.Time
}

// NewPGStore returns a PGStore granting allowance tokens per month (DefaultTokens when <= 0).
func NewPGStore(db *pgxpool.Pool, allowance int) *PGStore {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &PGStore{db: db, allowance: allowance, now: time.Now}
}

// UseToken atomically checks the monthly quota and deducts one token.
// It resets the counter to the allowance when last_reset_month is behind the current month.
// Returns ErrInsufficientTokens when 0 rows are updated (quota exhausted or user absent).
func (s *PGStore) UseToken(ctx context.Context, uid string) error {
	month := currentMonth(s.now())

	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, s.allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser inserts a new ai_usage row for uid with the full allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *PGStore) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.allowance, currentMonth(s.now()))
	return err
}

type usageRow struct {
	remaining int
	month     string
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	rows      map[string]*usageRow
	allowance int
	now       func() time.Time
}

// NewMemoryStore returns a MemoryStore granting allowance tokens per month (DefaultTokens when <= 0).
func NewMemoryStore(allowance int) *MemoryStore {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &MemoryStore{rows: map[string]*usageRow{}, allowance: allowance, now: time.Now}
}

func (s *MemoryStore) UseToken(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[uid]
	if !ok {
		return ErrInsufficientTokens
	}
	month := currentMonth(s.now())
	if row.month < month {
		row.remaining = s.allowance
		row.month = month
	}
	if row.remaining <= 0 {
		return ErrInsufficientTokens
	}
	row.remaining--
	return nil
}

func (s *MemoryStore) EnsureUser(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[uid]; !ok {
		s.rows[uid] = &usageRow{remaining: s.allowance, month: currentMonth(s.now())}
	}
	return nil
}

// Remaining reports the tokens left for uid this month.
func (s *MemoryStore) Remaining(uid string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[uid]
	if !ok {
		return 0, false
	}
	if row.month < currentMonth(s.now()) {
		return s.allowance, true
	}
	return row.remaining, true
}
