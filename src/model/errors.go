package model

import "fmt"

// DataIntegrityError 数据行不符合航班记录约束时返回
type DataIntegrityError struct {
	Row    int    // 数据行号(从 1 开始，不含表头)，0 表示未知
	Field  string // 出错的字段
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("data integrity: row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("data integrity: %s: %s", e.Field, e.Reason)
}
