// Package store defines the document persistence port consumed by the
// ledger, learning and profile services, plus path helpers for the
// document layout. Backends live in the subpackages memory, sqlite and
// firestore.
package store

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get and Update when no document lives at the
// given path.
var ErrNotExist = errors.New("document does not exist")

// FieldUpdate addresses one nested field for a partial update. Path segments
// name map keys from the document root down.
type FieldUpdate struct {
	Path  []string
	Value any
}

// DocumentStore is a minimal document database: documents are addressed by
// slash-separated paths with an even number of segments
// (collection/id/collection/id...), mirroring the production layout.
//
// There is no list or query operation. Services know every path they own.
type DocumentStore interface {
	// Get decodes the document at path into out.
	Get(ctx context.Context, path string, out any) error

	// Set writes the full document, creating or replacing it.
	Set(ctx context.Context, path string, doc any) error

	// Merge writes the given top-level fields, deep-merging maps and
	// creating the document if absent.
	Merge(ctx context.Context, path string, fields map[string]any) error

	// Update applies field-level updates to an existing document. It fails
	// with ErrNotExist when the document is absent.
	Update(ctx context.Context, path string, updates []FieldUpdate) error

	// Delete removes the document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, path string) error

	Close() error
}

// UserPath is the profile document for a user.
func UserPath(uid string) string {
	return "users/" + uid
}

// BudgetPath is one user's budget document for a period key.
func BudgetPath(uid, period string) string {
	return "users/" + uid + "/budgets/" + period
}

// LearningPath is one user's learning progress document.
func LearningPath(uid string) string {
	return "users/" + uid + "/learning/progress"
}
