package datapush

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"DelayInsight/src/model"
	"DelayInsight/src/processor"
	"DelayInsight/src/utils"

	"github.com/xuri/excelize/v2"
)

// RunSheet 运行信息工作表
const RunSheet = "Run"

// RunInfo 一次运行的信息，写入 Run 工作表和控制台
type RunInfo struct {
	ID       string
	Input    string
	Started  time.Time
	Records  int
	Rejected int
	// 按字段统计的被拒绝行数
	RejectedByField map[string]int
	// 超出分箱范围的延误值
	Dropped map[model.Cause]int
}

// ExportWorkbook 每张表一个工作表，第一个工作表为 Run
func ExportWorkbook(path string, tables []processor.Table, run RunInfo) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RunSheet); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRunSheet(f, run, header); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", RunSheet, err)
	}
	for _, tb := range tables {
		if err := writeTable(f, tb, header); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", tb.Name, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Flight delay summary",
		Identifier:  run.ID,
		Description: run.Input,
		Created:     run.Started.UTC().Format(time.RFC3339),
		Creator:     "delayinsight",
	}); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func writeRunSheet(f *excelize.File, run RunInfo, header int) error {
	rows := [][]any{
		{"Key", "Value"},
		{"RunID", run.ID},
		{"Input", run.Input},
		{"Started", run.Started.Format(time.RFC3339)},
		{"Records", run.Records},
		{"Rejected", run.Rejected},
	}
	for _, field := range processor.SortedKeys(run.RejectedByField) {
		rows = append(rows, []any{"Rejected_" + field, run.RejectedByField[field]})
	}
	for _, c := range model.DelayCauses {
		rows = append(rows, []any{"Dropped_" + string(c), run.Dropped[c]})
	}
	if err := setRows(f, RunSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(RunSheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(RunSheet, "A", "B", 24)
}

func writeTable(f *excelize.File, tb processor.Table, header int) error {
	if tb.Frame.Err != nil {
		return tb.Frame.Err
	}
	if _, err := f.NewSheet(tb.Name); err != nil {
		return err
	}

	names := tb.Frame.Names()
	nrow := tb.Frame.Nrow()
	rows := make([][]any, 0, nrow+1)
	hdr := make([]any, len(names))
	for i, n := range names {
		hdr[i] = n
	}
	rows = append(rows, hdr)
	for i := 0; i < nrow; i++ {
		row := make([]any, len(names))
		for j := range names {
			row[j] = utils.CellValue(tb.Frame.Elem(i, j))
		}
		rows = append(rows, row)
	}
	if err := setRows(f, tb.Name, rows); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(tb.Name, "A1", last, header); err != nil {
		return err
	}
	return f.SetPanes(tb.Name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
