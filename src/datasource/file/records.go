// records.go
package file

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"DelayInsight/src/model"
	"DelayInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns 数据集列名映射
type Columns struct {
	Year             string // 可选
	Month            string
	DayOfMonth       string // 可选
	DayOfWeek        string
	Cancelled        string
	CancellationCode string
	Delays           map[model.Cause]string
}

// DefaultColumns 2008.csv 的列名
func DefaultColumns() Columns {
	return Columns{
		Year:             "Year",
		Month:            "Month",
		DayOfMonth:       "DayofMonth",
		DayOfWeek:        "DayOfWeek",
		Cancelled:        "Cancelled",
		CancellationCode: "CancellationCode",
		Delays: map[model.Cause]string{
			model.CauseCarrier:      "CarrierDelay",
			model.CauseWeather:      "WeatherDelay",
			model.CauseNAS:          "NASDelay",
			model.CauseSecurity:     "SecurityDelay",
			model.CauseLateAircraft: "LateAircraftDelay",
		},
	}
}

// LoadResult 转换结果，Rejected 为被拒绝的数据行
type LoadResult struct {
	Records  []model.FlightRecord
	Rejected []*model.DataIntegrityError
}

// Converter 把 DataFrame 转为航班记录
type Converter struct {
	Columns Columns
	// 取消原因编码，A -> carrier 等
	Codes map[string]model.CancellationCause
	// Strict 为 true 时遇到第一条不合法数据即返回错误
	Strict bool
}

// NewConverter 使用默认列名和编码
func NewConverter() *Converter {
	return &Converter{
		Columns: DefaultColumns(),
		Codes:   model.DefaultCancellationCodes,
	}
}

// ToRecords 按给定列名和取消编码转换，strict 见 Converter.Strict
func ToRecords(df dataframe.DataFrame, cols Columns, codes map[string]model.CancellationCause, strict bool) (LoadResult, error) {
	c := &Converter{Columns: cols, Codes: codes, Strict: strict}
	return c.ToRecords(df)
}

type columnSet struct {
	year, month, dom, dow, cancelled, code series.Series
	hasYear, hasDom                        bool
	delays                                 map[model.Cause]series.Series
}

func (c *Converter) columns(df dataframe.DataFrame) (*columnSet, error) {
	var missing []string
	get := func(name string, required bool) (series.Series, bool) {
		if name != "" && utils.HasColumn(df, name) {
			return df.Col(name), true
		}
		if required {
			missing = append(missing, name)
		}
		return series.Series{}, false
	}

	cs := &columnSet{delays: make(map[model.Cause]series.Series, len(model.DelayCauses))}
	cs.year, cs.hasYear = get(c.Columns.Year, false)
	cs.dom, cs.hasDom = get(c.Columns.DayOfMonth, false)
	cs.month, _ = get(c.Columns.Month, true)
	cs.dow, _ = get(c.Columns.DayOfWeek, true)
	cs.cancelled, _ = get(c.Columns.Cancelled, true)
	cs.code, _ = get(c.Columns.CancellationCode, true)
	for _, cause := range model.DelayCauses {
		if s, ok := get(c.Columns.Delays[cause], true); ok {
			cs.delays[cause] = s
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cs, nil
}

// ToRecords 逐行解析。不合法的行包装为 DataIntegrityError：
// 严格模式下直接返回，否则跳过并记录在 Rejected 中。
func (c *Converter) ToRecords(df dataframe.DataFrame) (LoadResult, error) {
	if df.Err != nil {
		return LoadResult{}, df.Err
	}
	cs, err := c.columns(df)
	if err != nil {
		return LoadResult{}, err
	}

	res := LoadResult{Records: make([]model.FlightRecord, 0, df.Nrow())}
	for i := 0; i < df.Nrow(); i++ {
		rec, err := c.row(cs, i)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			var die *model.DataIntegrityError
			if !errors.As(err, &die) {
				return LoadResult{}, err
			}
			die.Row = i + 1
			if c.Strict {
				return LoadResult{}, die
			}
			res.Rejected = append(res.Rejected, die)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func (c *Converter) row(cs *columnSet, i int) (model.FlightRecord, error) {
	var (
		r   model.FlightRecord
		err error
	)
	if r.Month, err = parseInt(cs.month.Elem(i), "month"); err != nil {
		return r, err
	}
	if r.DayOfWeek, err = parseInt(cs.dow.Elem(i), "day_of_week"); err != nil {
		return r, err
	}
	// 年、日只用于按天统计，解析失败按未知处理
	if cs.hasYear {
		r.Year, _ = parseInt(cs.year.Elem(i), "year")
	}
	if cs.hasDom {
		r.DayOfMonth, _ = parseInt(cs.dom.Elem(i), "day_of_month")
	}
	if r.Cancelled, err = parseBool(cs.cancelled.Elem(i), "cancelled"); err != nil {
		return r, err
	}
	if r.CancellationCause, err = c.parseCode(cs.code.Elem(i)); err != nil {
		return r, err
	}
	for _, cause := range model.DelayCauses {
		m, err := parseMinutes(cs.delays[cause].Elem(i), string(cause))
		if err != nil {
			return r, err
		}
		r.Delays = r.Delays.With(cause, m)
	}
	return r, nil
}

func (c *Converter) parseCode(el series.Element) (model.CancellationCause, error) {
	if utils.IsMissing(el) {
		return model.CancelNone, nil
	}
	s := strings.TrimSpace(el.String())
	if cause, ok := c.Codes[s]; ok {
		return cause, nil
	}
	// 已经替换成原因名称的数据
	if cause, err := model.ParseCancellationCause(s); err == nil {
		return cause, nil
	}
	return model.CancelNone, &model.DataIntegrityError{Field: "cancellation_cause", Reason: fmt.Sprintf("unknown cancellation code %q", s)}
}

func parseInt(el series.Element, field string) (int, error) {
	if utils.IsMissing(el) {
		return 0, &model.DataIntegrityError{Field: field, Reason: "missing value"}
	}
	s := strings.TrimSpace(el.String())
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// 1.0 之类的浮点写法
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, &model.DataIntegrityError{Field: field, Reason: fmt.Sprintf("not an integer: %q", s)}
	}
	return int(f), nil
}

func parseBool(el series.Element, field string) (bool, error) {
	if utils.IsMissing(el) {
		return false, &model.DataIntegrityError{Field: field, Reason: "missing value"}
	}
	s := strings.TrimSpace(el.String())
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	switch f, err := strconv.ParseFloat(s, 64); {
	case err == nil && f == 0:
		return false, nil
	case err == nil && f == 1:
		return true, nil
	}
	return false, &model.DataIntegrityError{Field: field, Reason: fmt.Sprintf("not a boolean: %q", s)}
}

func parseMinutes(el series.Element, field string) (model.Minutes, error) {
	if utils.IsMissing(el) {
		return model.Absent(), nil
	}
	s := strings.TrimSpace(el.String())
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return model.Absent(), &model.DataIntegrityError{Field: field, Reason: fmt.Sprintf("not a number: %q", s)}
	}
	return model.Present(f), nil
}
