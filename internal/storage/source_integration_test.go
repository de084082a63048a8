//go:build integration

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type SourcePostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *SourcePostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("feed_reader"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(filepath.Join(migrationsPath, "001_create_sources.up.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *SourcePostgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *SourcePostgresSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sources")
}

func TestSourcePostgresSuite(t *testing.T) {
	suite.Run(t, new(SourcePostgresSuite))
}

func (s *SourcePostgresSuite) TestSources_Empty() {
	entries, err := NewSourcePostgresStorage(s.db).Sources(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *SourcePostgresSuite) TestSources_InInsertOrder() {
	_, err := s.db.ExecContext(s.ctx, `
		INSERT INTO sources (title, link, avatar_thumbnail, avatar_text, category) VALUES
		('Go Blog', 'https://go.dev/blog/feed.atom', 'https://go.dev/favicon.png', 'GO', 'programming'),
		('Hacker News', 'https://news.ycombinator.com/rss', '', 'HN', 'tech')`)
	s.Require().NoError(err)

	entries, err := NewSourcePostgresStorage(s.db).Sources(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal("Go Blog", entries[0].Title)
	s.Equal("https://go.dev/favicon.png", entries[0].AvatarThumbnail)
	s.Equal("HN", entries[1].AvatarText)
	s.Equal("", entries[1].AvatarThumbnail)
}
