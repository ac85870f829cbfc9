package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"monke-bot/internal/constants"
	"monke-bot/internal/domain"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// MatchRepository memoizes upstream match records in sqlite, keyed by
// (id, sk) where sk is the game kind's store discriminator.
type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *MatchRepository) BatchGet(ctx context.Context, kind domain.GameKind, ids []string) (map[string]domain.MatchRecord, error) {
	found := make(map[string]domain.MatchRecord, len(ids))
	sk := kind.StoreDiscriminator()

	for i := 0; i < len(ids); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(ids))
		if err := r.getChunk(ctx, sk, ids[i:end], found); err != nil {
			return nil, err
		}
	}

	r.logger.Debug().
		Str("game", string(kind)).
		Int("requested", len(ids)).
		Int("found", len(found)).
		Msg("match batch get")
	return found, nil
}

func (r *MatchRepository) getChunk(ctx context.Context, sk string, ids []string, found map[string]domain.MatchRecord) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("SELECT id, payload FROM match_records WHERE sk = ? AND id IN (%s)", placeholders)

	args := make([]any, 0, len(ids)+1)
	args = append(args, sk)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query match records: %w", err)
	}

	var corrupt []string
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan match record: %w", err)
		}

		var record domain.MatchRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			r.logger.Warn().Err(err).Str("match_id", id).Str("sk", sk).Msg("corrupt match payload")
			corrupt = append(corrupt, id)
			continue
		}
		found[id] = record
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read match records: %w", err)
	}
	rows.Close()

	// served as a miss; dropping the row lets the refetched record land
	return r.deleteCorrupt(ctx, sk, corrupt)
}

func (r *MatchRepository) deleteCorrupt(ctx context.Context, sk string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("DELETE FROM match_records WHERE sk = ? AND id IN (%s)", placeholders)

	args := make([]any, 0, len(ids)+1)
	args = append(args, sk)
	for _, id := range ids {
		args = append(args, id)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete corrupt match records: %w", err)
	}
	return nil
}

// BatchPut writes records that are not stored yet. Existing rows are left
// untouched since records never change after the first write.
func (r *MatchRepository) BatchPut(ctx context.Context, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO match_records (id, sk, game_kind, created_at, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(records))

		for _, record := range records[i:end] {
			payload, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to encode match %s: %w", record.ID, err)
			}
			_, err = stmt.ExecContext(ctx,
				record.ID,
				record.Kind.StoreDiscriminator(),
				string(record.Kind),
				record.CreatedAt,
				payload,
			)
			if err != nil {
				return fmt.Errorf("failed to insert match %s: %w", record.ID, err)
			}
		}
	}

	return tx.Commit()
}
