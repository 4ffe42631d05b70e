// reader.go
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"DelayInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// 视为缺失的取值
var nanValues = []string{"", "NA", "NaN", "nan", "<nil>"}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	}
}

// Load 根据扩展名读取 CSV 或 XLSX，sheetName 只对 XLSX 生效
func Load(filePath, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadXLSX(filePath, sheetName)
	case ".csv", ".txt":
		return ReadCSV(filePath)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("unsupported input file %s", filePath)
	}
}

// ReadCSV 读取 CSV，所有列按字符串读入，由 ToRecords 统一解析
func ReadCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read csv %s: %w", filePath, df.Err)
	}
	return df, nil
}

// ReadXLSX 读取工作表，sheetName 为空时取第一个工作表
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx open file false: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表: %s", filePath)
	}

	// 2. 获取工作表
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("sheet %q not found in %s", sheetName, filePath)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame，第一行为标题行
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q has no data rows", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)
	for _, row := range sheet.Rows[1:] {
		// 行尾空单元格不会出现在 Cells 中，按标题补齐
		rec := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i < len(headers) {
				rec[i] = strings.TrimSpace(cell.Value)
			}
		}
		if utils.AllEmpty(rec) {
			continue
		}
		records = append(records, rec)
	}

	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q: %w", sheet.Name, df.Err)
	}
	return df, nil
}
