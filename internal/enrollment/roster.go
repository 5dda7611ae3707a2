package enrollment

import (
	"context"

	"github.com/zaqqye/enrollment_backend/internal/models"
)

// ScopeCounter reports how many active students occupy a scope.
type ScopeCounter interface {
	CountInScope(ctx context.Context, scope Scope) (int, error)
}

// IdentifierSource reports the enrollment identifiers in use within a scope.
type IdentifierSource interface {
	IdentifiersInScope(ctx context.Context, scope Scope) (map[string]struct{}, error)
}

// Roster is the persistent collection of enrollment records.
//
// FindByIdentifier, DeleteByIdentifier and UpdateField return ErrStudentNotFound
// for unknown identifiers. Insert returns ErrDuplicateIdentifier when the
// identifier is already used within the record's scope.
type Roster interface {
	ScopeCounter
	IdentifierSource
	Insert(ctx context.Context, student *models.Student) error
	FindByIdentifier(ctx context.Context, id string) (*models.Student, error)
	DeleteByIdentifier(ctx context.Context, id string) error
	UpdateField(ctx context.Context, id string, field Field, value any) error
	ListOrdered(ctx context.Context) ([]models.Student, error)

	// Atomic runs fn against a roster bound to a single unit of work. Changes
	// made through that roster are committed only when fn returns nil.
	Atomic(ctx context.Context, fn func(Roster) error) error
}
