package models

import (
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
)

// Student is one enrollment record. Grade, Classroom and EnrollmentID are set
// once at enrollment and never updated afterwards.
type Student struct {
    ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
    Name         string    `gorm:"size:255" json:"name"`
    Age          int       `json:"age"`
    BirthCity    string    `gorm:"size:255" json:"birth_city"`
    BirthRegion  string    `gorm:"size:2" json:"birth_region"`
    Foreign      bool      `json:"foreign"`
    Grade        int       `gorm:"uniqueIndex:uniq_scope_enrollment,priority:1;index:idx_scope,priority:1" json:"grade"`
    Classroom    int       `gorm:"uniqueIndex:uniq_scope_enrollment,priority:2;index:idx_scope,priority:2" json:"classroom"`
    EnrollmentID string    `gorm:"size:9;uniqueIndex:uniq_scope_enrollment,priority:3;index" json:"enrollment_id"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
    if s.ID == "" {
        s.ID = uuid.NewString()
    }
    return nil
}
