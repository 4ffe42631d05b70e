package model

import "fmt"

// GroupKey 分组维度
type GroupKey int

const (
	KeyMonth GroupKey = iota
	KeyDayOfWeek
)

var monthAbbr = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// 1 = Monday，全局唯一的星期映射
var dayAbbr = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (k GroupKey) String() string {
	switch k {
	case KeyMonth:
		return "Month"
	case KeyDayOfWeek:
		return "DayOfWeek"
	default:
		return fmt.Sprintf("GroupKey(%d)", int(k))
	}
}

// Of 取出记录在该维度上的取值
func (k GroupKey) Of(r FlightRecord) int {
	if k == KeyDayOfWeek {
		return r.DayOfWeek
	}
	return r.Month
}

// Domain 该维度的全部取值，升序
func (k GroupKey) Domain() []int {
	n := len(monthAbbr)
	if k == KeyDayOfWeek {
		n = len(dayAbbr)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Label 显示用标签，超出范围时返回数字本身
func (k GroupKey) Label(v int) string {
	if k == KeyDayOfWeek {
		return DayLabel(v)
	}
	return MonthLabel(v)
}

// MonthLabel 1 -> "Jan"
func MonthLabel(m int) string {
	if m < 1 || m > len(monthAbbr) {
		return fmt.Sprint(m)
	}
	return monthAbbr[m-1]
}

// DayLabel 1 -> "Mon"
func DayLabel(d int) string {
	if d < 1 || d > len(dayAbbr) {
		return fmt.Sprint(d)
	}
	return dayAbbr[d-1]
}
