package database

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/jackc/pgx/v5/pgconn"
    "gorm.io/gorm"

    "github.com/zaqqye/enrollment_backend/internal/enrollment"
    "github.com/zaqqye/enrollment_backend/internal/models"
)

// rosterLockKey is the PostgreSQL advisory lock taken by Roster.Atomic.
const rosterLockKey int64 = 0x454e524f4c4c

// Roster stores students in the "students" table.
type Roster struct {
    DB *gorm.DB
}

var _ enrollment.Roster = (*Roster)(nil)

func NewRoster(db *gorm.DB) *Roster {
    return &Roster{DB: db}
}

func (r *Roster) scoped(ctx context.Context, scope enrollment.Scope) (*gorm.DB, error) {
    if err := scope.Validate(); err != nil {
        return nil, err
    }
    return r.DB.WithContext(ctx).Model(&models.Student{}).
        Where("grade = ? AND classroom = ?", int(scope.Grade), int(scope.Classroom)), nil
}

func (r *Roster) CountInScope(ctx context.Context, scope enrollment.Scope) (int, error) {
    q, err := r.scoped(ctx, scope)
    if err != nil {
        return 0, err
    }
    var count int64
    if err := q.Count(&count).Error; err != nil {
        return 0, err
    }
    return int(count), nil
}

func (r *Roster) IdentifiersInScope(ctx context.Context, scope enrollment.Scope) (map[string]struct{}, error) {
    q, err := r.scoped(ctx, scope)
    if err != nil {
        return nil, err
    }
    var ids []string
    if err := q.Pluck("enrollment_id", &ids).Error; err != nil {
        return nil, err
    }
    out := make(map[string]struct{}, len(ids))
    for _, id := range ids {
        out[id] = struct{}{}
    }
    return out, nil
}

func (r *Roster) Insert(ctx context.Context, student *models.Student) error {
    scope := enrollment.Scope{Grade: enrollment.Grade(student.Grade), Classroom: enrollment.Classroom(student.Classroom)}
    q, err := r.scoped(ctx, scope)
    if err != nil {
        return err
    }
    var count int64
    if err := q.Where("enrollment_id = ?", student.EnrollmentID).Count(&count).Error; err != nil {
        return err
    }
    if count > 0 {
        return fmt.Errorf("%w: %s", enrollment.ErrDuplicateIdentifier, student.EnrollmentID)
    }
    if err := r.DB.WithContext(ctx).Create(student).Error; err != nil {
        if isUniqueViolation(err) {
            return fmt.Errorf("%w: %s", enrollment.ErrDuplicateIdentifier, student.EnrollmentID)
        }
        return err
    }
    return nil
}

func (r *Roster) FindByIdentifier(ctx context.Context, id string) (*models.Student, error) {
    var st models.Student
    if err := r.DB.WithContext(ctx).Where("enrollment_id = ?", id).First(&st).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, enrollment.ErrStudentNotFound
        }
        return nil, err
    }
    return &st, nil
}

func (r *Roster) DeleteByIdentifier(ctx context.Context, id string) error {
    res := r.DB.WithContext(ctx).Where("enrollment_id = ?", id).Delete(&models.Student{})
    if res.Error != nil {
        return res.Error
    }
    if res.RowsAffected == 0 {
        return enrollment.ErrStudentNotFound
    }
    return nil
}

func (r *Roster) UpdateField(ctx context.Context, id string, field enrollment.Field, value any) error {
    if _, err := enrollment.ParseField(string(field)); err != nil {
        return err
    }
    res := r.DB.WithContext(ctx).Model(&models.Student{}).
        Where("enrollment_id = ?", id).
        Update(field.Column(), value)
    if res.Error != nil {
        return res.Error
    }
    if res.RowsAffected == 0 {
        return enrollment.ErrStudentNotFound
    }
    return nil
}

func (r *Roster) ListOrdered(ctx context.Context) ([]models.Student, error) {
    var students []models.Student
    if err := r.DB.WithContext(ctx).Order("grade ASC, classroom ASC, name ASC").Find(&students).Error; err != nil {
        return nil, err
    }
    return students, nil
}

// Atomic runs fn inside a transaction. On PostgreSQL it also holds an advisory
// lock until commit so concurrent processes cannot interleave enrollments.
func (r *Roster) Atomic(ctx context.Context, fn func(enrollment.Roster) error) error {
    return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        if tx.Dialector.Name() == "postgres" {
            if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", rosterLockKey).Error; err != nil {
                return err
            }
        }
        return fn(&Roster{DB: tx})
    })
}

func isUniqueViolation(err error) bool {
    if errors.Is(err, gorm.ErrDuplicatedKey) {
        return true
    }
    var pgErr *pgconn.PgError
    if errors.As(err, &pgErr) && pgErr.Code == "23505" {
        return true
    }
    return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
