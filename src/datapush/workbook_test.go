package datapush

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"DelayInsight/src/model"
	"DelayInsight/src/processor"

	"github.com/xuri/excelize/v2"
)

func sampleReport(t *testing.T) *processor.Report {
	t.Helper()
	records := []model.FlightRecord{
		{Year: 2008, Month: 1, DayOfMonth: 3, DayOfWeek: 4, Delays: model.Delays{
			Carrier: model.Present(10), Weather: model.Present(2000), NAS: model.Present(0),
			Security: model.Present(0), LateAircraft: model.Present(0),
		}},
		{Year: 2008, Month: 2, DayOfMonth: 5, DayOfWeek: 2, Cancelled: true, CancellationCause: model.CancelNAS},
	}
	for i := 0; i < 1200; i++ {
		records = append(records, model.FlightRecord{Year: 2008, Month: 3, DayOfMonth: 1, DayOfWeek: 6})
	}
	rep, err := processor.Analyze(records, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return rep
}

func sampleRun(rep *processor.Report) RunInfo {
	return RunInfo{
		ID:              "run-1",
		Input:           "2008.csv",
		Started:         time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		Records:         rep.Records,
		Rejected:        1,
		RejectedByField: map[string]int{"month": 1},
		Dropped:         rep.Dropped(),
	}
}

func TestExportWorkbook(t *testing.T) {
	rep := sampleReport(t)
	tables := rep.Tables()
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	if err := ExportWorkbook(path, tables, sampleRun(rep)); err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != len(tables)+1 || sheets[0] != RunSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	run, err := f.GetRows(RunSheet)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string)
	for _, row := range run[1:] {
		got[row[0]] = row[1]
	}
	if got["RunID"] != "run-1" || got["Records"] != "1202" || got["Rejected_month"] != "1" || got["Dropped_weather"] != "1" {
		t.Errorf("run sheet = %v", got)
	}

	month, err := f.GetRows("FlightsByMonth")
	if err != nil {
		t.Fatal(err)
	}
	if len(month) != 4 || month[0][0] != "Month" || month[3][0] != "Mar" || month[3][1] != "1200" {
		t.Errorf("FlightsByMonth = %v", month)
	}

	// 没有延误的月份，均值单元格为空
	delay, err := f.GetRows("DelayByMonth")
	if err != nil {
		t.Fatal(err)
	}
	col := -1
	for j, name := range delay[0] {
		if name == "mean_carrier" {
			col = j
		}
	}
	if col < 0 {
		t.Fatalf("header = %v", delay[0])
	}
	if delay[1][col] != "10" {
		t.Errorf("Jan mean_carrier = %q", delay[1][col])
	}
	if len(delay[2]) > col && delay[2][col] != "" {
		t.Errorf("Feb mean_carrier = %q, want empty", delay[2][col])
	}
}

func TestExportWorkbookBadPath(t *testing.T) {
	dir := t.TempDir()
	// 目录当作文件
	if err := ExportWorkbook(dir, nil, RunInfo{}); err == nil {
		t.Error("expected error when path is a directory")
	}
}

func TestPrintSummary(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	if err := PrintSummary(&buf, rep, sampleRun(rep)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Run run-1", "Flights: 1,202", "cancelled by NAS", "weather"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
