// Package backend selects and wires the document store implementation from
// runtime configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/Maxerns/moneymentor-sub000/internal/config"
	applog "github.com/Maxerns/moneymentor-sub000/internal/log"
	"github.com/Maxerns/moneymentor-sub000/internal/store"
	"github.com/Maxerns/moneymentor-sub000/internal/store/firestore"
	"github.com/Maxerns/moneymentor-sub000/internal/store/memory"
	"github.com/Maxerns/moneymentor-sub000/internal/store/sqlite"
)

type Type string

const (
	MemoryBackend    Type = "memory"
	SQLiteBackend    Type = "sqlite"
	FirestoreBackend Type = "firestore"
)

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, FirestoreBackend:
		return true
	}
	return false
}

// Result carries the constructed store and its cleanup hook.
type Result struct {
	Store   store.DocumentStore
	Cleanup func() error
}

type Factory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateStore builds the document store named by cfg.DataBackend.
func (f *Factory) CreateStore(ctx context.Context, cfg *config.Config) (*Result, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		st, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: st, Cleanup: st.Close}, nil

	case FirestoreBackend:
		st, err := firestore.New(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, fmt.Errorf("initialize firestore store: %w", err)
		}
		f.logger.Info("Initialized Firestore backend", "project_id", cfg.FirebaseProjectID)
		return &Result{Store: st, Cleanup: st.Close}, nil

	default:
		st := memory.New()
		f.logger.Info("Initialized memory backend")
		return &Result{Store: st, Cleanup: nil}, nil
	}
}
