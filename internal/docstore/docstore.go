// Package docstore keeps one JSON document per user in Postgres. The folder
// manager stores its whole folder array in the folders field.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"authorstore/internal/folders"
)

const schema = `
	CREATE TABLE IF NOT EXISTS user_documents (
		user_id    TEXT PRIMARY KEY,
		folders    JSONB NOT NULL DEFAULT '[]'::jsonb,
		revision   BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Store implements folders.DocumentStore on a user_documents table.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

// Open connects with connection pooling and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func New(db *sql.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("authorstore/docstore"),
	}
}

// EnsureSchema creates the documents table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadFolders returns the user's folder array; users without a document get
// an empty slice.
func (s *Store) LoadFolders(ctx context.Context, userID string) ([]folders.Folder, error) {
	ctx, span := s.tracer.Start(ctx, "docstore.load_folders",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT folders
		FROM user_documents
		WHERE user_id = $1
	`, userID).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("document.exists", false))
		return []folders.Folder{}, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load folders: %w", err)
	}

	var list []folders.Folder
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode folders: %w", err)
	}
	span.SetAttributes(attribute.Int("folders.loaded", len(list)))
	return list, nil
}

// SaveFolders replaces the folder array. The latest write wins.
func (s *Store) SaveFolders(ctx context.Context, userID string, list []folders.Folder) error {
	ctx, span := s.tracer.Start(ctx, "docstore.save_folders",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("folders.count", len(list)),
		),
	)
	defer span.End()

	if list == nil {
		list = []folders.Folder{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode folders: %w", err)
	}

	var revision int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO user_documents (user_id, folders, revision, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET folders = EXCLUDED.folders,
		    revision = user_documents.revision + 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING revision
	`, userID, raw, time.Now().UTC()).Scan(&revision)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("save folders: %w", err)
	}

	span.SetAttributes(attribute.Int64("document.revision", revision))
	return nil
}
