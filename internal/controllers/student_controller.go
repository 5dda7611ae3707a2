package controllers

import (
    "errors"
    "log"
    "net/http"
    "sort"
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/zaqqye/enrollment_backend/internal/enrollment"
    "github.com/zaqqye/enrollment_backend/internal/export"
)

type StudentController struct {
    Service *enrollment.Service
}

type createStudentRequest struct {
    Name        string      `json:"name" binding:"required"`
    Age         FlexibleInt `json:"age" binding:"required"`
    BirthCity   string      `json:"birth_city" binding:"required"`
    BirthRegion string      `json:"birth_region"`
    Foreign     *bool       `json:"foreign"`
    Grade       FlexibleInt `json:"grade" binding:"required"`
}

// respondError maps enrollment errors to HTTP responses.
func respondError(c *gin.Context, err error) {
    switch {
    case errors.Is(err, enrollment.ErrAllocationExhausted):
        c.JSON(http.StatusConflict, gin.H{"error": "all classrooms are full for this grade; no seats available this term"})
    case errors.Is(err, enrollment.ErrDuplicateIdentifier):
        c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    case errors.Is(err, enrollment.ErrStudentNotFound):
        c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
    case errors.Is(err, enrollment.ErrRemovalNotConfirmed):
        c.JSON(http.StatusBadRequest, gin.H{"error": "removal must be confirmed with confirm=true"})
    case errors.Is(err, enrollment.ErrInvalidField),
        errors.Is(err, enrollment.ErrInvalidScope),
        errors.Is(err, enrollment.ErrImmutableField):
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    default:
        log.Printf("students: %v", err)
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    }
}

func (sc *StudentController) CreateStudent(c *gin.Context) {
    var req createStudentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    foreign := false
    if req.Foreign != nil {
        foreign = *req.Foreign
    }
    st, err := sc.Service.Enroll(c.Request.Context(), enrollment.Applicant{
        Name:        req.Name,
        Age:         req.Age.Int(),
        BirthCity:   req.BirthCity,
        BirthRegion: req.BirthRegion,
        Foreign:     foreign,
        Grade:       enrollment.Grade(req.Grade.Int()),
    })
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{
        "message":       "enrolled",
        "enrollment_id": st.EnrollmentID,
        "grade":         st.Grade,
        "classroom":     st.Classroom,
        "student":       st,
    })
}

func (sc *StudentController) ListStudents(c *gin.Context) {
    grade, ok := gradeQuery(c)
    if !ok {
        return
    }
    students, err := sc.Service.List(c.Request.Context(), grade)
    if err != nil {
        respondError(c, err)
        return
    }
    meta := gin.H{"total": len(students)}
    if grade != 0 {
        meta["grade"] = int(grade)
    }
    c.JSON(http.StatusOK, gin.H{"data": students, "meta": meta})
}

func (sc *StudentController) GetStudent(c *gin.Context) {
    id := strings.TrimSpace(c.Param("enrollment_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrollment_id"})
        return
    }
    st, err := sc.Service.Find(c.Request.Context(), id)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, st)
}

// UpdateStudent accepts any subset of name, age, birth_city, birth_region and
// foreign. Grade, classroom and enrollment_id are rejected.
func (sc *StudentController) UpdateStudent(c *gin.Context) {
    id := strings.TrimSpace(c.Param("enrollment_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrollment_id"})
        return
    }
    var body map[string]interface{}
    if err := c.ShouldBindJSON(&body); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    keys := make([]string, 0, len(body))
    for k := range body {
        keys = append(keys, k)
    }
    sort.Strings(keys)

    changes := make([]enrollment.Change, 0, len(keys))
    for _, k := range keys {
        field, err := enrollment.ParseField(k)
        if err != nil {
            respondError(c, err)
            return
        }
        changes = append(changes, enrollment.Change{Field: field, Value: body[k]})
    }
    st, err := sc.Service.Update(c.Request.Context(), id, changes)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated", "student": st})
}

func (sc *StudentController) DeleteStudent(c *gin.Context) {
    id := strings.TrimSpace(c.Param("enrollment_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrollment_id"})
        return
    }
    confirmed := false
    switch strings.ToLower(strings.TrimSpace(c.Query("confirm"))) {
    case "true", "1", "yes", "s":
        confirmed = true
    }
    st, err := sc.Service.Remove(c.Request.Context(), id, confirmed)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted", "enrollment_id": st.EnrollmentID, "name": st.Name})
}

func (sc *StudentController) ExportStudents(c *gin.Context) {
    grade, ok := gradeQuery(c)
    if !ok {
        return
    }
    students, err := sc.Service.List(c.Request.Context(), grade)
    if err != nil {
        respondError(c, err)
        return
    }
    c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
    c.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
    c.Status(http.StatusOK)
    if err := export.WriteRoster(c.Writer, students); err != nil {
        log.Printf("students export: %v", err)
    }
}

func (sc *StudentController) GradeOccupancy(c *gin.Context) {
    grade, err := enrollment.ParseGrade(strings.TrimSpace(c.Param("grade")))
    if err != nil {
        respondError(c, err)
        return
    }
    occ, err := sc.Service.Occupancy(c.Request.Context(), grade)
    if err != nil {
        respondError(c, err)
        return
    }
    free := 0
    for _, o := range occ {
        free += o.Free
    }
    c.JSON(http.StatusOK, gin.H{"grade": int(grade), "classrooms": occ, "free": free})
}

// gradeQuery reads the optional "grade" query parameter; zero means all grades.
func gradeQuery(c *gin.Context) (enrollment.Grade, bool) {
    v := strings.TrimSpace(c.Query("grade"))
    if v == "" {
        return 0, true
    }
    g, err := enrollment.ParseGrade(v)
    if err != nil {
        respondError(c, err)
        return 0, false
    }
    return g, true
}
