package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/VladPetriv/telegram_bot/pkg/database"
)

type offsetStore struct {
	*database.PostgreSQL
}

// NewOffset returns new instance of offset store. It persists the last
// consumed update id per cache key and satisfies telegram.OffsetStore.
func NewOffset(db *database.PostgreSQL) *offsetStore {
	return &offsetStore{
		db,
	}
}

func (s *offsetStore) Get(ctx context.Context, key string) (int64, error) {
	stmt := sq.
		StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("update_id").
		From("telegram_offsets").
		Where(sq.Eq{"cache_key": key})

	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build get offset query: %w", err)
	}

	var offset int64
	err = s.DB.GetContext(ctx, &offset, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return offset, nil
}

func (s *offsetStore) Set(ctx context.Context, key string, value int64) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO telegram_offsets (cache_key, update_id) VALUES ($1, $2)
		ON CONFLICT (cache_key) DO UPDATE SET update_id = EXCLUDED.update_id, updated_at = NOW();`,
		key, value,
	)

	return err
}
