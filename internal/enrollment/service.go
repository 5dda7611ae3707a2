package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zaqqye/enrollment_backend/internal/models"
)

// Change is a single field update.
type Change struct {
	Field Field
	Value any
}

// ClassroomOccupancy is the load of one classroom.
type ClassroomOccupancy struct {
	Classroom Classroom `json:"classroom"`
	Count     int       `json:"count"`
	Capacity  int       `json:"capacity"`
	Free      int       `json:"free"`
}

// Service runs the enrollment workflow against a Roster.
type Service struct {
	Roster      Roster
	Allocator   *Allocator
	Identifiers *IdentifierGenerator
	Notifier    Notifier

	// mu serializes enrollments of this process; Roster.Atomic covers other
	// processes sharing the store.
	mu sync.Mutex
}

func NewService(roster Roster, allocator *Allocator, identifiers *IdentifierGenerator, notifier Notifier) *Service {
	if allocator == nil {
		allocator = NewAllocator(DefaultCapacity)
	}
	if identifiers == nil {
		identifiers = NewIdentifierGenerator(DefaultMaxAttempts)
	}
	return &Service{
		Roster:      roster,
		Allocator:   allocator,
		Identifiers: identifiers,
		Notifier:    notifier,
	}
}

// Enroll allocates a classroom, generates an identifier and inserts the
// record as one unit. ErrAllocationExhausted means the grade is full and
// nothing was written.
func (s *Service) Enroll(ctx context.Context, applicant Applicant) (*models.Student, error) {
	a, err := applicant.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var student *models.Student
	err = s.Roster.Atomic(ctx, func(tx Roster) error {
		room, err := s.Allocator.Allocate(ctx, tx, a.Grade)
		if err != nil {
			return err
		}
		scope := Scope{Grade: a.Grade, Classroom: room}
		id, err := s.Identifiers.Generate(ctx, tx, scope)
		if err != nil {
			return err
		}
		rec := &models.Student{
			Name:         a.Name,
			Age:          a.Age,
			BirthCity:    a.BirthCity,
			BirthRegion:  a.BirthRegion,
			Foreign:      a.Foreign,
			Grade:        int(scope.Grade),
			Classroom:    int(scope.Classroom),
			EnrollmentID: id,
		}
		if err := tx.Insert(ctx, rec); err != nil {
			return err
		}
		student = rec
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAllocationExhausted) {
			log.Printf("enrollment declined: grade %d has no free classroom", a.Grade)
		}
		return nil, err
	}
	log.Printf("enrolled %s in grade %d classroom %d", student.EnrollmentID, student.Grade, student.Classroom)
	s.publish(EventEnrolled, *student)
	return student, nil
}

func (s *Service) Find(ctx context.Context, id string) (*models.Student, error) {
	return s.Roster.FindByIdentifier(ctx, id)
}

// UpdateField changes one mutable field and returns the updated record.
func (s *Service) UpdateField(ctx context.Context, id string, field Field, value any) (*models.Student, error) {
	return s.Update(ctx, id, []Change{{Field: field, Value: value}})
}

// Update applies all changes or none of them.
func (s *Service) Update(ctx context.Context, id string, changes []Change) (*models.Student, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidField)
	}
	normalized := make([]Change, 0, len(changes))
	for _, ch := range changes {
		if _, ok := mutableFields[ch.Field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrImmutableField, ch.Field)
		}
		v, err := ch.Field.NormalizeValue(ch.Value)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, Change{Field: ch.Field, Value: v})
	}

	var student *models.Student
	err := s.Roster.Atomic(ctx, func(tx Roster) error {
		for _, ch := range normalized {
			if err := tx.UpdateField(ctx, id, ch.Field, ch.Value); err != nil {
				return err
			}
		}
		var err error
		student, err = tx.FindByIdentifier(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(EventUpdated, *student)
	return student, nil
}

// Remove deletes the student once the caller confirmed the removal. Without
// confirmation it only checks that the student exists.
func (s *Service) Remove(ctx context.Context, id string, confirmed bool) (*models.Student, error) {
	student, err := s.Roster.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return student, ErrRemovalNotConfirmed
	}
	if err := s.Roster.DeleteByIdentifier(ctx, id); err != nil {
		return nil, err
	}
	log.Printf("removed %s from grade %d classroom %d", student.EnrollmentID, student.Grade, student.Classroom)
	s.publish(EventRemoved, *student)
	return student, nil
}

// List returns every student ordered by grade then classroom. A zero grade
// means all grades.
func (s *Service) List(ctx context.Context, grade Grade) ([]models.Student, error) {
	if grade != 0 && !grade.Valid() {
		return nil, fmt.Errorf("%w: grade %d", ErrInvalidScope, grade)
	}
	all, err := s.Roster.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	if grade == 0 {
		return all, nil
	}
	out := make([]models.Student, 0, len(all))
	for _, st := range all {
		if st.Grade == int(grade) {
			out = append(out, st)
		}
	}
	return out, nil
}

// Occupancy reports count and free seats for every classroom of grade.
func (s *Service) Occupancy(ctx context.Context, grade Grade) ([]ClassroomOccupancy, error) {
	if !grade.Valid() {
		return nil, fmt.Errorf("%w: grade %d", ErrInvalidScope, grade)
	}
	limit := s.Allocator.capacity()
	out := make([]ClassroomOccupancy, 0, len(Classrooms))
	for _, room := range Classrooms {
		count, err := s.Roster.CountInScope(ctx, Scope{Grade: grade, Classroom: room})
		if err != nil {
			return nil, err
		}
		free := limit - count
		if free < 0 {
			free = 0
		}
		out = append(out, ClassroomOccupancy{Classroom: room, Count: count, Capacity: limit, Free: free})
	}
	return out, nil
}

func (s *Service) publish(t EventType, student models.Student) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Publish(Event{Type: t, Student: student, At: time.Now().UTC()})
}
