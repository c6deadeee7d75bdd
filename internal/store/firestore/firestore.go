// Package firestore backs the DocumentStore port with Cloud Firestore,
// the production database.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Maxerns/moneymentor-sub000/internal/store"
)

type Store struct {
	client *firestore.Client
}

// New connects to the given Firestore project. credentialsFile may be empty,
// in which case application default credentials are used.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, path string, out any) error {
	snap, err := s.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("get %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	if err := snap.DataTo(out); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

func (s *Store) Set(ctx context.Context, path string, doc any) error {
	if _, err := s.client.Doc(path).Set(ctx, doc); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *Store) Merge(ctx context.Context, path string, fields map[string]any) error {
	if _, err := s.client.Doc(path).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path string, updates []store.FieldUpdate) error {
	fsUpdates := make([]firestore.Update, len(updates))
	for i, u := range updates {
		fsUpdates[i] = firestore.Update{FieldPath: firestore.FieldPath(u.Path), Value: u.Value}
	}
	_, err := s.client.Doc(path).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("update %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
