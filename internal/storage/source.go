package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/samber/lo"
)

// Каталог источников в postgres. Только чтение: каталог грузится один раз при старте
type SourcePostgresStorage struct {
	db *sqlx.DB
}

func NewSourcePostgresStorage(db *sqlx.DB) *SourcePostgresStorage {
	return &SourcePostgresStorage{db: db}
}

// Метод для получения списка источников
func (s *SourcePostgresStorage) Sources(ctx context.Context) ([]model.CatalogEntry, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var sources []dbSource
	if err := conn.SelectContext(
		ctx,
		&sources,
		`SELECT title, link, avatar_thumbnail, avatar_text, category FROM sources ORDER BY id`,
	); err != nil {
		return nil, err
	}

	return lo.Map(sources, func(source dbSource, _ int) model.CatalogEntry {
		return model.CatalogEntry(source)
	}), nil
}

// Внутренняя модель для работы с БД, чтобы правильно мапить его на колонки в таблице
type dbSource struct {
	Title           string `db:"title"`
	Link            string `db:"link"`
	AvatarThumbnail string `db:"avatar_thumbnail"`
	AvatarText      string `db:"avatar_text"`
	Category        string `db:"category"`
}
