package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"

	"github.com/xuri/excelize/v2"
)

// SheetName 出勤报告工作表名称
const SheetName = "Attendance"

// AttendanceHeader 导出表头
var AttendanceHeader = []string{
	"Room Code",
	"Room Name",
	"Slot Start",
	"Slot End",
	"Session Start",
	"Session End",
	"Duration (min)",
	"Student Count",
	"Teacher Count",
	"Students",
	"Teachers",
}

var attendanceColumnWidths = []float64{12, 20, 20, 20, 20, 20, 14, 14, 14, 50, 30}

// FileName 下载文件名，例如 attendance_T001_2025-03-10.xlsx
func FileName(teacherUserCode, date string) string {
	return fmt.Sprintf("attendance_%s_%s.xlsx", teacherUserCode, date)
}

// GenerateAttendanceWorkbook 生成出勤报告 Excel 文件
// 每个会话一行；成员列表用 ", " 连接
func GenerateAttendanceWorkbook(report models.TeacherAttendanceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range AttendanceHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, width := range attendanceColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, s := range report.GroupedAttendance {
		row := []any{
			s.RoomCode,
			s.RoomName,
			s.SlotStart,
			s.SlotEnd,
			s.SessionStart,
			s.SessionEnd,
			s.DurationMinutes,
			s.StudentCount,
			s.TeacherCount,
			strings.Join(s.Students, ", "),
			strings.Join(s.Teachers, ", "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2) // 第1行是表头
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
