package doorconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

// Postgres stores door configuration with the schedule serialized as JSONB.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed config store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Get(ctx context.Context, id string) (domain.DoorConfig, error) {
	var (
		cfg      domain.DoorConfig
		schedule []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, time_zone, schedule FROM door_config WHERE id = $1
	`, id).Scan(&cfg.ID, &cfg.TimeZone, &schedule)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DoorConfig{}, fmt.Errorf("door config %q: %w", id, sentinel.ErrConfigMissing)
	}
	if err != nil {
		return domain.DoorConfig{}, fmt.Errorf("query door config: %w", err)
	}

	if err := json.Unmarshal(schedule, &cfg.Schedule); err != nil {
		return domain.DoorConfig{}, fmt.Errorf("decode schedule: %w", err)
	}
	return cfg, nil
}

func (s *Postgres) Put(ctx context.Context, cfg domain.DoorConfig) error {
	schedule, err := json.Marshal(cfg.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO door_config (id, time_zone, schedule, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET time_zone = EXCLUDED.time_zone,
		    schedule = EXCLUDED.schedule,
		    updated_at = EXCLUDED.updated_at
	`, cfg.ID, cfg.TimeZone, schedule, time.Now())
	if err != nil {
		return fmt.Errorf("upsert door config: %w", err)
	}
	return nil
}
