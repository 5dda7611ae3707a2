package enrollment

import (
	"context"
	"fmt"

	"github.com/zaqqye/enrollment_backend/internal/utils"
)

// Allocator chooses a classroom for a new student of a given grade.
type Allocator struct {
	// Capacity is the per-classroom limit; zero means DefaultCapacity.
	Capacity int
	// Pick returns a uniform index in [0, n). Defaults to utils.RandomIndex.
	Pick func(n int) (int, error)
}

func NewAllocator(capacity int) *Allocator {
	return &Allocator{Capacity: capacity}
}

func (a *Allocator) capacity() int {
	if a == nil || a.Capacity <= 0 {
		return DefaultCapacity
	}
	return a.Capacity
}

// Available returns the classrooms of grade whose count is below capacity, in
// classroom order.
func (a *Allocator) Available(ctx context.Context, roster ScopeCounter, grade Grade) ([]Classroom, error) {
	if !grade.Valid() {
		return nil, fmt.Errorf("%w: grade %d", ErrInvalidScope, grade)
	}
	limit := a.capacity()
	available := make([]Classroom, 0, len(Classrooms))
	for _, room := range Classrooms {
		count, err := roster.CountInScope(ctx, Scope{Grade: grade, Classroom: room})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", Scope{Grade: grade, Classroom: room}, err)
		}
		if count < limit {
			available = append(available, room)
		}
	}
	return available, nil
}

// Allocate picks uniformly at random among the classrooms of grade that are not
// full. It returns ErrAllocationExhausted when every classroom is full.
func (a *Allocator) Allocate(ctx context.Context, roster ScopeCounter, grade Grade) (Classroom, error) {
	available, err := a.Available(ctx, roster, grade)
	if err != nil {
		return 0, err
	}
	if len(available) == 0 {
		return 0, ErrAllocationExhausted
	}
	pick := utils.RandomIndex
	if a != nil && a.Pick != nil {
		pick = a.Pick
	}
	idx, err := pick(len(available))
	if err != nil {
		return 0, fmt.Errorf("pick classroom: %w", err)
	}
	if idx < 0 || idx >= len(available) {
		return 0, fmt.Errorf("pick classroom: index %d out of range", idx)
	}
	return available[idx], nil
}
