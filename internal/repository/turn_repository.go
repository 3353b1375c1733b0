package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

// TurnRepository stores conversation turns in insertion order per session.
type TurnRepository interface {
	Append(ctx context.Context, turn *domain.Turn) error
	// AppendAll stores every turn or none of them.
	AppendAll(ctx context.Context, turns ...*domain.Turn) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Turn, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

// NewTurnRepository picks postgres when a pool is available.
func NewTurnRepository(pool *pgxpool.Pool) TurnRepository {
	if pool == nil {
		return NewMemoryTurnRepository()
	}
	return &turnRepository{pool: pool}
}

type turnRepository struct {
	pool *pgxpool.Pool
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *turnRepository) Append(ctx context.Context, turn *domain.Turn) error {
	return insertTurn(ctx, r.pool, turn)
}

func (r *turnRepository) AppendAll(ctx context.Context, turns ...*domain.Turn) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, turn := range turns {
			if err := insertTurn(ctx, tx, turn); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTurn(ctx context.Context, q rowQuerier, turn *domain.Turn) error {
	const query = `
        INSERT INTO conversation_turns (id, session_id, body, speaker, follow_ups, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING seq`
	followUps := turn.FollowUps
	if followUps == nil {
		followUps = []string{}
	}
	return q.QueryRow(ctx, query,
		turn.ID,
		turn.SessionID,
		turn.Text,
		string(turn.Speaker),
		followUps,
		turn.Timestamp,
	).Scan(&turn.Seq)
}

func (r *turnRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	const query = `
        SELECT seq, id, session_id, body, speaker, follow_ups, created_at
        FROM conversation_turns WHERE session_id=$1 ORDER BY seq`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := []domain.Turn{}
	for rows.Next() {
		var (
			turn    domain.Turn
			speaker string
		)
		if err := rows.Scan(&turn.Seq, &turn.ID, &turn.SessionID, &turn.Text, &speaker, &turn.FollowUps, &turn.Timestamp); err != nil {
			return nil, err
		}
		turn.Speaker = domain.Speaker(speaker)
		if len(turn.FollowUps) == 0 {
			turn.FollowUps = nil
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

func (r *turnRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM conversation_turns WHERE session_id=$1`, sessionID)
	return err
}

// MemoryTurnRepository keeps turns in process memory.
type MemoryTurnRepository struct {
	mu       sync.RWMutex
	seq      int64
	sessions map[string][]domain.Turn
}

// NewMemoryTurnRepository returns an empty repository.
func NewMemoryTurnRepository() *MemoryTurnRepository {
	return &MemoryTurnRepository{sessions: make(map[string][]domain.Turn)}
}

func (r *MemoryTurnRepository) Append(ctx context.Context, turn *domain.Turn) error {
	return r.AppendAll(ctx, turn)
}

func (r *MemoryTurnRepository) AppendAll(_ context.Context, turns ...*domain.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, turn := range turns {
		r.seq++
		turn.Seq = r.seq
		stored := *turn
		stored.FollowUps = append([]string(nil), turn.FollowUps...)
		r.sessions[turn.SessionID] = append(r.sessions[turn.SessionID], stored)
	}
	return nil
}

func (r *MemoryTurnRepository) ListBySession(_ context.Context, sessionID string) ([]domain.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.sessions[sessionID]
	turns := make([]domain.Turn, 0, len(stored))
	for _, turn := range stored {
		turn.FollowUps = append([]string(nil), turn.FollowUps...)
		turns = append(turns, turn)
	}
	return turns, nil
}

func (r *MemoryTurnRepository) DeleteBySession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
