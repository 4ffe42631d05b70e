// flight.go
package model

import (
	"fmt"
	"time"
)

// Cause 延误原因分类
type Cause string

const (
	CauseCarrier      Cause = "carrier"
	CauseWeather      Cause = "weather"
	CauseNAS          Cause = "NAS"
	CauseSecurity     Cause = "security"
	CauseLateAircraft Cause = "late_aircraft"
)

// DelayCauses 五类延误原因，顺序即报表输出顺序
var DelayCauses = []Cause{
	CauseCarrier,
	CauseWeather,
	CauseNAS,
	CauseSecurity,
	CauseLateAircraft,
}

// ParseCause 将字符串解析为延误原因
func ParseCause(s string) (Cause, error) {
	for _, c := range DelayCauses {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown delay cause %q", s)
}

// CancellationCause 取消原因，CancelNone 表示未取消
type CancellationCause string

const (
	CancelNone     CancellationCause = ""
	CancelCarrier  CancellationCause = "carrier"
	CancelWeather  CancellationCause = "weather"
	CancelNAS      CancellationCause = "NAS"
	CancelSecurity CancellationCause = "security"
)

// CancellationCauses 有效的取消原因(不含 CancelNone)
var CancellationCauses = []CancellationCause{
	CancelCarrier,
	CancelWeather,
	CancelNAS,
	CancelSecurity,
}

// DefaultCancellationCodes 数据集中 CancellationCode 列的编码
var DefaultCancellationCodes = map[string]CancellationCause{
	"A": CancelCarrier,
	"B": CancelWeather,
	"C": CancelNAS,
	"D": CancelSecurity,
}

// ParseCancellationCause 将原因名称解析为取消原因，空串为 CancelNone
func ParseCancellationCause(s string) (CancellationCause, error) {
	if s == "" {
		return CancelNone, nil
	}
	for _, c := range CancellationCauses {
		if string(c) == s {
			return c, nil
		}
	}
	return CancelNone, fmt.Errorf("unknown cancellation cause %q", s)
}

// Minutes 可缺失的延误分钟数。零值为缺失，与 0 分钟不同。
type Minutes struct {
	value float64
	valid bool
}

// Present 返回一个有值的 Minutes
func Present(v float64) Minutes {
	return Minutes{value: v, valid: true}
}

// Absent 返回缺失值
func Absent() Minutes {
	return Minutes{}
}

// Get 返回值以及是否存在
func (m Minutes) Get() (float64, bool) {
	return m.value, m.valid
}

func (m Minutes) IsPresent() bool { return m.valid }

// Positive 有值且严格大于 0
func (m Minutes) Positive() bool {
	return m.valid && m.value > 0
}

func (m Minutes) String() string {
	if !m.valid {
		return "NaN"
	}
	return fmt.Sprintf("%g", m.value)
}

// Delays 按原因存放的延误分钟数
type Delays struct {
	Carrier      Minutes
	Weather      Minutes
	NAS          Minutes
	Security     Minutes
	LateAircraft Minutes
}

// Get 按原因取值，未知原因返回缺失
func (d Delays) Get(c Cause) Minutes {
	switch c {
	case CauseCarrier:
		return d.Carrier
	case CauseWeather:
		return d.Weather
	case CauseNAS:
		return d.NAS
	case CauseSecurity:
		return d.Security
	case CauseLateAircraft:
		return d.LateAircraft
	default:
		return Absent()
	}
}

// With 返回设置了某个原因延误值的副本
func (d Delays) With(c Cause, m Minutes) Delays {
	switch c {
	case CauseCarrier:
		d.Carrier = m
	case CauseWeather:
		d.Weather = m
	case CauseNAS:
		d.NAS = m
	case CauseSecurity:
		d.Security = m
	case CauseLateAircraft:
		d.LateAircraft = m
	}
	return d
}

// FlightRecord 一条航班记录，只保留分析用到的字段
type FlightRecord struct {
	Year              int // 0 表示未知
	Month             int // 1-12
	DayOfMonth        int // 0 表示未知
	DayOfWeek         int // 1-7, 1 = Monday
	Cancelled         bool
	CancellationCause CancellationCause
	Delays            Delays
}

// Delay 返回某原因的延误分钟数
func (r FlightRecord) Delay(c Cause) Minutes {
	return r.Delays.Get(c)
}

// Date 返回航班日期，年月日任一未知时 ok 为 false
func (r FlightRecord) Date() (time.Time, bool) {
	if r.Year <= 0 || r.DayOfMonth <= 0 || r.Month < 1 || r.Month > 12 {
		return time.Time{}, false
	}
	d := time.Date(r.Year, time.Month(r.Month), r.DayOfMonth, 0, 0, 0, 0, time.UTC)
	// time.Date 会把 2 月 30 日之类的日期规整到下个月
	if d.Day() != r.DayOfMonth {
		return time.Time{}, false
	}
	return d, true
}

// Validate 检查记录的取值范围以及取消原因与取消标记的一致性。
// 2003 年以前的数据没有取消原因，已取消但原因为 CancelNone 的记录视为原因未知。
func (r FlightRecord) Validate() error {
	if r.Month < 1 || r.Month > 12 {
		return &DataIntegrityError{Field: "month", Reason: fmt.Sprintf("month %d out of range 1-12", r.Month)}
	}
	if r.DayOfWeek < 1 || r.DayOfWeek > 7 {
		return &DataIntegrityError{Field: "day_of_week", Reason: fmt.Sprintf("day of week %d out of range 1-7", r.DayOfWeek)}
	}
	if !r.Cancelled && r.CancellationCause != CancelNone {
		return &DataIntegrityError{Field: "cancellation_cause", Reason: fmt.Sprintf("cause %q set on a flight that was not cancelled", r.CancellationCause)}
	}
	for _, c := range DelayCauses {
		if v, ok := r.Delay(c).Get(); ok && v < 0 {
			return &DataIntegrityError{Field: string(c), Reason: fmt.Sprintf("negative delay %g", v)}
		}
	}
	return nil
}
