// Package sqlite stores documents as JSON rows in a local SQLite file.
// Used for self-hosted deployments that want durable state without a
// cloud project.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Maxerns/moneymentor-sub000/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) load(ctx context.Context, path string) (map[string]any, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, path string, doc map[string]any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		path, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, path string, out any) error {
	doc, err := s.load(ctx, path)
	if err != nil {
		return err
	}
	return store.Decode(doc, out)
}

func (s *Store) Set(ctx context.Context, path string, doc any) error {
	m, err := store.Encode(doc)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return s.save(ctx, path, m)
}

func (s *Store) Merge(ctx context.Context, path string, fields map[string]any) error {
	enc, err := store.Encode(fields)
	if err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	doc, err := s.load(ctx, path)
	if errors.Is(err, store.ErrNotExist) {
		doc = map[string]any{}
	} else if err != nil {
		return err
	}
	store.MergeFields(doc, enc)
	return s.save(ctx, path, doc)
}

func (s *Store) Update(ctx context.Context, path string, updates []store.FieldUpdate) error {
	doc, err := s.load(ctx, path)
	if err != nil {
		return err
	}
	for _, u := range updates {
		enc, err := store.Encode(map[string]any{"v": u.Value})
		if err != nil {
			return fmt.Errorf("update %s: %w", path, err)
		}
		store.SetField(doc, u.Path, enc["v"])
	}
	return s.save(ctx, path, doc)
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
