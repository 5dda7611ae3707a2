package enrollment

import (
	"fmt"
	"strings"
	"unicode"
)

// Field names a mutable attribute of a student record.
type Field string

const (
	FieldName        Field = "name"
	FieldAge         Field = "age"
	FieldBirthCity   Field = "birth_city"
	FieldBirthRegion Field = "birth_region"
	FieldForeign     Field = "foreign"
)

// ForeignRegion is the birth region recorded for students born abroad.
const ForeignRegion = "NA"

var mutableFields = map[Field]struct{}{
	FieldName:        {},
	FieldAge:         {},
	FieldBirthCity:   {},
	FieldBirthRegion: {},
	FieldForeign:     {},
}

var immutableFields = map[string]struct{}{
	"grade":         {},
	"classroom":     {},
	"enrollment_id": {},
	"id":            {},
}

// ParseField maps a field name to a mutable Field.
func ParseField(name string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := immutableFields[key]; ok {
		return "", fmt.Errorf("%w: %s", ErrImmutableField, key)
	}
	f := Field(key)
	if _, ok := mutableFields[f]; !ok {
		return "", fmt.Errorf("%w: unknown field %q", ErrInvalidField, name)
	}
	return f, nil
}

// Column is the storage column backing the field.
func (f Field) Column() string {
	return string(f)
}

// NormalizeValue checks value against the rules of the field and returns the
// value to store.
func (f Field) NormalizeValue(value any) (any, error) {
	switch f {
	case FieldName, FieldBirthCity:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be text", ErrInvalidField, f)
		}
		return ValidateText(string(f), s)
	case FieldAge:
		n, ok := toInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: age must be an integer", ErrInvalidField)
		}
		return ValidateAge(n)
	case FieldBirthRegion:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: birth_region must be text", ErrInvalidField)
		}
		return ValidateRegion(s)
	case FieldForeign:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: foreign must be a boolean", ErrInvalidField)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrImmutableField, f)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// ValidateText accepts letters and spaces only, with at least one letter.
func ValidateText(label, s string) (string, error) {
	s = strings.TrimSpace(s)
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
		default:
			return "", fmt.Errorf("%w: %s must contain only letters and spaces", ErrInvalidField, label)
		}
	}
	if letters == 0 {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidField, label)
	}
	return s, nil
}

func ValidateAge(age int) (int, error) {
	if age <= 0 {
		return 0, fmt.Errorf("%w: age must be greater than 0", ErrInvalidField)
	}
	return age, nil
}

// ValidateRegion accepts exactly two letters and returns them upper-cased.
func ValidateRegion(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return "", fmt.Errorf("%w: birth_region must have exactly 2 letters", ErrInvalidField)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: birth_region must have exactly 2 letters", ErrInvalidField)
		}
	}
	return s, nil
}
