package database

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/zaqqye/enrollment_backend/internal/config"
    "github.com/zaqqye/enrollment_backend/internal/enrollment"
    "github.com/zaqqye/enrollment_backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
    t.Helper()
    db, err := Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
    require.NoError(t, err)
    require.NoError(t, Migrate(db))
    t.Cleanup(func() { _ = Close(db) })
    return db
}

func student(grade, classroom int, id, name string) *models.Student {
    return &models.Student{
        Name:         name,
        Age:          15,
        BirthCity:    "Santos",
        BirthRegion:  "SP",
        Grade:        grade,
        Classroom:    classroom,
        EnrollmentID: id,
    }
}

func TestRosterInsertAndScopeQueries(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))

    require.NoError(t, r.Insert(ctx, student(3, 2, "312345672", "Ana")))
    require.NoError(t, r.Insert(ctx, student(3, 2, "300000012", "Bia")))
    require.NoError(t, r.Insert(ctx, student(3, 1, "312345671", "Caio")))

    n, err := r.CountInScope(ctx, enrollment.Scope{Grade: 3, Classroom: 2})
    require.NoError(t, err)
    assert.Equal(t, 2, n)

    n, err = r.CountInScope(ctx, enrollment.Scope{Grade: 1, Classroom: 1})
    require.NoError(t, err)
    assert.Zero(t, n)

    ids, err := r.IdentifiersInScope(ctx, enrollment.Scope{Grade: 3, Classroom: 2})
    require.NoError(t, err)
    assert.Equal(t, map[string]struct{}{"312345672": {}, "300000012": {}}, ids)

    again, err := r.IdentifiersInScope(ctx, enrollment.Scope{Grade: 3, Classroom: 2})
    require.NoError(t, err)
    assert.Equal(t, ids, again)
}

func TestRosterInsertDuplicate(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))

    require.NoError(t, r.Insert(ctx, student(1, 4, "112345674", "Ana")))
    err := r.Insert(ctx, student(1, 4, "112345674", "Bia"))
    require.ErrorIs(t, err, enrollment.ErrDuplicateIdentifier)

    n, err := r.CountInScope(ctx, enrollment.Scope{Grade: 1, Classroom: 4})
    require.NoError(t, err)
    assert.Equal(t, 1, n)
}

func TestRosterRejectsInvalidScope(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))

    _, err := r.CountInScope(ctx, enrollment.Scope{Grade: 5, Classroom: 1})
    assert.ErrorIs(t, err, enrollment.ErrInvalidScope)
    err = r.Insert(ctx, student(1, 9, "112345679", "Ana"))
    assert.ErrorIs(t, err, enrollment.ErrInvalidScope)
}

func TestRosterFindUpdateDelete(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))
    require.NoError(t, r.Insert(ctx, student(2, 3, "298765433", "Davi")))

    require.NoError(t, r.UpdateField(ctx, "298765433", enrollment.FieldAge, 17))
    st, err := r.FindByIdentifier(ctx, "298765433")
    require.NoError(t, err)
    assert.Equal(t, 17, st.Age)
    assert.Equal(t, "Davi", st.Name)
    assert.Equal(t, 2, st.Grade)
    assert.Equal(t, 3, st.Classroom)
    assert.Equal(t, "298765433", st.EnrollmentID)

    err = r.UpdateField(ctx, "298765433", enrollment.Field("grade"), 1)
    assert.ErrorIs(t, err, enrollment.ErrImmutableField)
    err = r.UpdateField(ctx, "200000003", enrollment.FieldAge, 17)
    assert.ErrorIs(t, err, enrollment.ErrStudentNotFound)

    require.NoError(t, r.DeleteByIdentifier(ctx, "298765433"))
    _, err = r.FindByIdentifier(ctx, "298765433")
    assert.ErrorIs(t, err, enrollment.ErrStudentNotFound)
    assert.ErrorIs(t, r.DeleteByIdentifier(ctx, "298765433"), enrollment.ErrStudentNotFound)
}

func TestRosterListOrdered(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))
    require.NoError(t, r.Insert(ctx, student(3, 1, "300000001", "Eva")))
    require.NoError(t, r.Insert(ctx, student(1, 4, "100000004", "Gil")))
    require.NoError(t, r.Insert(ctx, student(1, 2, "100000002", "Ivo")))
    require.NoError(t, r.Insert(ctx, student(2, 1, "200000001", "Lia")))

    list, err := r.ListOrdered(ctx)
    require.NoError(t, err)
    got := make([]string, 0, len(list))
    for _, st := range list {
        got = append(got, st.EnrollmentID)
    }
    assert.Equal(t, []string{"100000002", "100000004", "200000001", "300000001"}, got)
}

func TestRosterAtomicRollsBack(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))
    boom := errors.New("boom")

    err := r.Atomic(ctx, func(tx enrollment.Roster) error {
        if err := tx.Insert(ctx, student(1, 1, "100000011", "Ana")); err != nil {
            return err
        }
        return boom
    })
    require.ErrorIs(t, err, boom)

    _, err = r.FindByIdentifier(ctx, "100000011")
    assert.ErrorIs(t, err, enrollment.ErrStudentNotFound)

    require.NoError(t, r.Atomic(ctx, func(tx enrollment.Roster) error {
        return tx.Insert(ctx, student(1, 1, "100000011", "Ana"))
    }))
    _, err = r.FindByIdentifier(ctx, "100000011")
    assert.NoError(t, err)
}

func TestServiceOverRoster(t *testing.T) {
    ctx := context.Background()
    r := NewRoster(openTestDB(t))
    svc := enrollment.NewService(r, enrollment.NewAllocator(2), nil, nil)

    app := enrollment.Applicant{Name: "Ana Souza", Age: 15, BirthCity: "Campinas", BirthRegion: "SP", Grade: 1}
    for i := 0; i < 8; i++ {
        _, err := svc.Enroll(ctx, app)
        require.NoError(t, err)
    }
    _, err := svc.Enroll(ctx, app)
    require.ErrorIs(t, err, enrollment.ErrAllocationExhausted)

    list, err := svc.List(ctx, 1)
    require.NoError(t, err)
    assert.Len(t, list, 8)
}

func TestSeedAdminOnce(t *testing.T) {
    db := openTestDB(t)
    cfg := &config.Config{AdminEmail: "root@school.test", AdminPassword: "secret123"}
    require.NoError(t, SeedAdmin(db, cfg))
    require.NoError(t, SeedAdmin(db, cfg))

    var count int64
    require.NoError(t, db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error)
    assert.Equal(t, int64(1), count)
}
