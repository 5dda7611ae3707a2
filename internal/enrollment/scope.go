package enrollment

import (
	"fmt"
	"strconv"
)

// DefaultCapacity is the maximum number of active students per classroom.
const DefaultCapacity = 40

// Grade is a year-level (1, 2 or 3).
type Grade int

// Classroom is a room within a grade (1 to 4).
type Classroom int

var (
	Grades     = []Grade{1, 2, 3}
	Classrooms = []Classroom{1, 2, 3, 4}
)

func (g Grade) Valid() bool {
	for _, v := range Grades {
		if g == v {
			return true
		}
	}
	return false
}

func (c Classroom) Valid() bool {
	for _, v := range Classrooms {
		if c == v {
			return true
		}
	}
	return false
}

// ParseGrade parses a grade from its decimal form.
func ParseGrade(s string) (Grade, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: grade %q", ErrInvalidScope, s)
	}
	g := Grade(n)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: grade %d", ErrInvalidScope, n)
	}
	return g, nil
}

// Scope is a (grade, classroom) pair, the unit of capacity and identifier uniqueness.
type Scope struct {
	Grade     Grade
	Classroom Classroom
}

func (s Scope) Validate() error {
	if !s.Grade.Valid() {
		return fmt.Errorf("%w: grade %d", ErrInvalidScope, s.Grade)
	}
	if !s.Classroom.Valid() {
		return fmt.Errorf("%w: classroom %d", ErrInvalidScope, s.Classroom)
	}
	return nil
}

func (s Scope) String() string {
	return fmt.Sprintf("grade %d classroom %d", s.Grade, s.Classroom)
}
