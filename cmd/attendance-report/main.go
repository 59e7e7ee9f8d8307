// attendance-report 命令行查询教师出勤报告
//
// 用法：
//
//	attendance-report -server http://localhost:8080 -teacher T001 -date 2025-03-10
//	attendance-report -teacher T001 -xlsx ./attendance.xlsx
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"

	"github.com/go-resty/resty/v2"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "trackademia-api base URL")
	teacher := flag.String("teacher", "", "teacher_user_code (required)")
	date := flag.String("date", "", "date_filter YYYY-MM-DD (default: server today)")
	xlsxPath := flag.String("xlsx", "", "write the report workbook to this path instead of printing")
	flag.Parse()

	if *teacher == "" {
		fmt.Fprintln(os.Stderr, "-teacher is required")
		flag.Usage()
		os.Exit(2)
	}

	client := newClient(*server)

	var err error
	if *xlsxPath != "" {
		err = downloadWorkbook(client, *teacher, *date, *xlsxPath)
	} else {
		var report *models.TeacherAttendanceReport
		report, err = fetchReport(client, *teacher, *date)
		if err == nil {
			printReport(os.Stdout, report)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
}

func formData(teacher, date string) map[string]string {
	data := map[string]string{"teacher_user_code": teacher}
	if date != "" {
		data["date_filter"] = date
	}
	return data
}

// fetchReport 以表单 POST 调用报告接口（与移动端一致）
func fetchReport(client *resty.Client, teacher, date string) (*models.TeacherAttendanceReport, error) {
	var report models.TeacherAttendanceReport
	resp, err := client.R().
		SetFormData(formData(teacher, date)).
		SetResult(&report).
		Post("/api/v1/attendance/teacher")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status())
	}
	if report.Status != models.StatusSuccess {
		return nil, fmt.Errorf("%s", report.Message)
	}
	return &report, nil
}

// downloadWorkbook 下载 xlsx；服务端出错时返回的是 JSON 错误
func downloadWorkbook(client *resty.Client, teacher, date, path string) error {
	resp, err := client.R().
		SetFormData(formData(teacher, date)).
		Post("/api/v1/attendance/teacher/export")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected HTTP status %s", resp.Status())
	}
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		var fail models.Result
		if err := json.Unmarshal(resp.Body(), &fail); err != nil {
			return fmt.Errorf("failed to decode error response: %w", err)
		}
		return fmt.Errorf("%s", fail.Message)
	}
	if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(resp.Body()))
	return nil
}

func printReport(out io.Writer, report *models.TeacherAttendanceReport) {
	fmt.Fprintf(out, "date: %s  sessions: %d\n\n", report.DateFilter, report.TotalSessions)
	if report.TotalSessions == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tNAME\tSLOT START\tSLOT END\tMIN\tSTUDENTS\tTEACHERS")
	for _, s := range report.GroupedAttendance {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			s.RoomCode, s.RoomName, s.SlotStart, s.SlotEnd, s.DurationMinutes,
			s.StudentCount, strings.Join(s.Teachers, ", "))
	}
	_ = tw.Flush()
}
