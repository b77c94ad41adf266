package data

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewDB opens a private in-memory SQLite database.
//
// Every connection to ":memory:" is a separate database, so the pool is pinned
// to exactly one connection that is never recycled. This also serializes all
// statements issued against the store.
func NewDB() (*sqlx.DB, error) {
	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	return db, nil
}

// ApplyMigrations runs all embedded up migrations against db.
func ApplyMigrations(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Up applies all available up migrations.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// m.Close would close the shared *sql.DB and with it the whole store.
	return src.Close()
}

// Store owns the in-memory database and the repositories built on it.
// It is created once at start-up and passed by pointer.
type Store struct {
	DB         *sqlx.DB
	Users      *UserRepository
	Categories *CategoryRepository
	Topics     *TopicRepository
	Posts      *PostRepository
	Views      *ViewRepository
}

// OpenStore creates the database, migrates it and wires the repositories.
func OpenStore() (*Store, error) {
	db, err := NewDB()
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		DB:         db,
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Topics:     NewTopicRepository(db),
		Posts:      NewPostRepository(db),
		Views:      NewViewRepository(db),
	}, nil
}

// Close releases the database. All forum data is lost.
func (s *Store) Close() error {
	return s.DB.Close()
}
