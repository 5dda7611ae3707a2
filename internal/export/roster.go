package export

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/zaqqye/enrollment_backend/internal/models"
)

const SheetName = "Roster"

var header = []interface{}{"Grade", "Classroom", "Enrollment ID", "Name", "Age", "Birth City", "Birth Region", "Foreign"}

// WriteRoster writes students, in the given order, as an xlsx workbook.
func WriteRoster(w io.Writer, students []models.Student) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, st := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		foreign := "N"
		if st.Foreign {
			foreign = "S"
		}
		row := []interface{}{st.Grade, st.Classroom, st.EnrollmentID, st.Name, st.Age, st.BirthCity, st.BirthRegion, foreign}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
