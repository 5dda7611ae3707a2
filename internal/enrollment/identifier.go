package enrollment

import (
	"context"
	"fmt"

	"github.com/zaqqye/enrollment_backend/internal/utils"
)

const (
	// RandomBlockLength is the number of random digits between the grade and
	// classroom digits of an enrollment identifier.
	RandomBlockLength = 7
	// IdentifierLength is the total length of an enrollment identifier.
	IdentifierLength = RandomBlockLength + 2

	DefaultMaxAttempts = 1000
)

// IdentifierGenerator produces enrollment identifiers unique within a scope.
type IdentifierGenerator struct {
	// MaxAttempts bounds the number of draws; zero means DefaultMaxAttempts.
	MaxAttempts int
	// Digits returns n random decimal digits. Defaults to utils.RandomDigits.
	Digits func(n int) (string, error)
}

func NewIdentifierGenerator(maxAttempts int) *IdentifierGenerator {
	return &IdentifierGenerator{MaxAttempts: maxAttempts}
}

// FormatIdentifier builds "<grade><block><classroom>".
func FormatIdentifier(scope Scope, block string) string {
	return fmt.Sprintf("%d%s%d", scope.Grade, block, scope.Classroom)
}

// ScopeOf decodes the scope embedded in an enrollment identifier.
func ScopeOf(id string) (Scope, error) {
	if len(id) != IdentifierLength {
		return Scope{}, fmt.Errorf("%w: identifier %q", ErrInvalidScope, id)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return Scope{}, fmt.Errorf("%w: identifier %q", ErrInvalidScope, id)
		}
	}
	scope := Scope{
		Grade:     Grade(id[0] - '0'),
		Classroom: Classroom(id[len(id)-1] - '0'),
	}
	if err := scope.Validate(); err != nil {
		return Scope{}, err
	}
	return scope, nil
}

// Generate returns an identifier not present in the scope. The used set is
// read once per call.
func (g *IdentifierGenerator) Generate(ctx context.Context, source IdentifierSource, scope Scope) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", err
	}
	used, err := source.IdentifiersInScope(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("identifiers in %s: %w", scope, err)
	}

	digits := utils.RandomDigits
	maxAttempts := DefaultMaxAttempts
	if g != nil {
		if g.Digits != nil {
			digits = g.Digits
		}
		if g.MaxAttempts > 0 {
			maxAttempts = g.MaxAttempts
		}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		block, err := digits(RandomBlockLength)
		if err != nil {
			return "", fmt.Errorf("draw identifier digits: %w", err)
		}
		if len(block) != RandomBlockLength {
			return "", fmt.Errorf("draw identifier digits: got %d digits, want %d", len(block), RandomBlockLength)
		}
		id := FormatIdentifier(scope, block)
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %d attempts in %s", ErrIdentifierSpaceExhausted, maxAttempts, scope)
}
