// Package audit receives the (actor, before, after) triples the domain
// services emit after every successful mutation. The validators themselves
// are stateless; history lives here.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Entry is a single history record.
type Entry struct {
	ActorID  *uuid.UUID `json:"actor_id,omitempty"`
	Entity   string     `json:"entity"`
	EntityID uuid.UUID  `json:"entity_id"`
	Action   string     `json:"action"` // create, update, delete
	Before   any        `json:"before,omitempty"`
	After    any        `json:"after,omitempty"`
}

// Sink records history entries.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// PGSink persists entries to the audit_log table.
type PGSink struct {
	pool *pgxpool.Pool
}

func NewPGSink(pool *pgxpool.Pool) *PGSink {
	return &PGSink{pool: pool}
}

func (s *PGSink) Record(ctx context.Context, e Entry) error {
	before, err := marshalState(e.Before)
	if err != nil {
		return fmt.Errorf("marshal before state: %w", err)
	}
	after, err := marshalState(e.After)
	if err != nil {
		return fmt.Errorf("marshal after state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO audit_log (id, actor_id, entity, entity_id, action, before, after, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		uuid.New(), e.ActorID, e.Entity, e.EntityID, e.Action, before, after)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func marshalState(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// LogSink writes entries to a structured log instead of the database. Used
// in development and tests.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, e Entry) error {
	evt := s.logger.Info().
		Str("entity", e.Entity).
		Str("entity_id", e.EntityID.String()).
		Str("action", e.Action)
	if e.ActorID != nil {
		evt = evt.Str("actor_id", e.ActorID.String())
	}
	evt.Msg("audit")
	return nil
}
