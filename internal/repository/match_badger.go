package repository

import (
	"context"
	"errors"
	"fmt"

	"monke-bot/internal/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type BadgerMatchRepository struct {
	db     *badger.DB
	logger zerolog.Logger
}

func NewBadgerMatchRepository(db *badger.DB, logger zerolog.Logger) *BadgerMatchRepository {
	return &BadgerMatchRepository{db: db, logger: logger}
}

func matchKey(kind domain.GameKind, id string) []byte {
	return []byte("match/" + kind.StoreDiscriminator() + "/" + id)
}

func (r *BadgerMatchRepository) BatchGet(ctx context.Context, kind domain.GameKind, ids []string) (map[string]domain.MatchRecord, error) {
	found := make(map[string]domain.MatchRecord, len(ids))
	var corrupt [][]byte

	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := matchKey(kind, id)
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var record domain.MatchRecord
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				r.logger.Warn().Err(err).Str("match_id", id).Msg("corrupt match payload")
				corrupt = append(corrupt, key)
				continue
			}
			found[id] = record
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read match records: %w", err)
	}

	if len(corrupt) > 0 {
		err = r.db.Update(func(txn *badger.Txn) error {
			for _, key := range corrupt {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to delete corrupt match records: %w", err)
		}
	}
	return found, nil
}

func (r *BadgerMatchRepository) BatchPut(ctx context.Context, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	written := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := matchKey(record.Kind, record.ID)
			_, err := txn.Get(key)
			if err == nil {
				continue // first write wins
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			payload, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to encode match %s: %w", record.ID, err)
			}
			if err := txn.Set(key, payload); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write match records: %w", err)
	}

	r.logger.Debug().Int("written", written).Int("skipped", len(records)-written).Msg("match batch put")
	return nil
}
