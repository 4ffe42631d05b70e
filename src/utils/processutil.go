package utils

import (
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// IsMissing 空字符串或 NA
func IsMissing(e series.Element) bool {
	return e.IsNA() || strings.TrimSpace(e.String()) == ""
}

// AllEmpty 整行为空
func AllEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CellValue 转为写入 Excel 的值，缺失值返回 nil
func CellValue(e series.Element) any {
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Int:
		n, err := e.Int()
		if err != nil {
			return nil
		}
		return n
	case series.Float:
		f := e.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return nil
		}
		return b
	default:
		return e.String()
	}
}
