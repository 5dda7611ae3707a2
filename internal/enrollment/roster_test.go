package enrollment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zaqqye/enrollment_backend/internal/models"
)

// memRoster is an in-memory Roster used by the package tests.
type memRoster struct {
	mu       sync.Mutex
	students []models.Student
	counts   map[Scope]int // overrides the real count when set
	queries  int
}

func newMemRoster() *memRoster {
	return &memRoster{counts: map[Scope]int{}}
}

// fill adds n placeholder students to scope.
func (r *memRoster) fill(scope Scope, n int) {
	for i := 0; i < n; i++ {
		r.students = append(r.students, models.Student{
			Name:         "Filler",
			Age:          15,
			Grade:        int(scope.Grade),
			Classroom:    int(scope.Classroom),
			EnrollmentID: FormatIdentifier(scope, fmt.Sprintf("%07d", i)),
		})
	}
}

func (r *memRoster) CountInScope(_ context.Context, scope Scope) (int, error) {
	if n, ok := r.counts[scope]; ok {
		return n, nil
	}
	n := 0
	for _, st := range r.students {
		if st.Grade == int(scope.Grade) && st.Classroom == int(scope.Classroom) {
			n++
		}
	}
	return n, nil
}

func (r *memRoster) IdentifiersInScope(_ context.Context, scope Scope) (map[string]struct{}, error) {
	r.queries++
	out := map[string]struct{}{}
	for _, st := range r.students {
		if st.Grade == int(scope.Grade) && st.Classroom == int(scope.Classroom) {
			out[st.EnrollmentID] = struct{}{}
		}
	}
	return out, nil
}

func (r *memRoster) Insert(_ context.Context, student *models.Student) error {
	for _, st := range r.students {
		if st.Grade == student.Grade && st.Classroom == student.Classroom && st.EnrollmentID == student.EnrollmentID {
			return ErrDuplicateIdentifier
		}
	}
	r.students = append(r.students, *student)
	return nil
}

func (r *memRoster) index(id string) int {
	for i, st := range r.students {
		if st.EnrollmentID == id {
			return i
		}
	}
	return -1
}

func (r *memRoster) FindByIdentifier(_ context.Context, id string) (*models.Student, error) {
	i := r.index(id)
	if i < 0 {
		return nil, ErrStudentNotFound
	}
	st := r.students[i]
	return &st, nil
}

func (r *memRoster) DeleteByIdentifier(_ context.Context, id string) error {
	i := r.index(id)
	if i < 0 {
		return ErrStudentNotFound
	}
	r.students = append(r.students[:i], r.students[i+1:]...)
	return nil
}

func (r *memRoster) UpdateField(_ context.Context, id string, field Field, value any) error {
	i := r.index(id)
	if i < 0 {
		return ErrStudentNotFound
	}
	st := &r.students[i]
	switch field {
	case FieldName:
		st.Name = value.(string)
	case FieldAge:
		st.Age = value.(int)
	case FieldBirthCity:
		st.BirthCity = value.(string)
	case FieldBirthRegion:
		st.BirthRegion = value.(string)
	case FieldForeign:
		st.Foreign = value.(bool)
	default:
		return ErrImmutableField
	}
	return nil
}

func (r *memRoster) ListOrdered(_ context.Context) ([]models.Student, error) {
	out := append([]models.Student(nil), r.students...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Grade != out[j].Grade {
			return out[i].Grade < out[j].Grade
		}
		return out[i].Classroom < out[j].Classroom
	})
	return out, nil
}

func (r *memRoster) Atomic(_ context.Context, fn func(Roster) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := append([]models.Student(nil), r.students...)
	if err := fn(r); err != nil {
		r.students = snapshot
		return err
	}
	return nil
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Publish(e Event) {
	n.events = append(n.events, e)
}

// sequence returns a Digits func yielding blocks in order, then repeating the last one.
func sequence(blocks ...string) func(int) (string, error) {
	i := 0
	return func(int) (string, error) {
		b := blocks[i]
		if i < len(blocks)-1 {
			i++
		}
		return b, nil
	}
}
