// analysis.go
package processor

import (
	"fmt"

	"DelayInsight/src/model"
)

// CauseReport 单个延误原因的统计结果
type CauseReport struct {
	Cause     model.Cause
	Describe  Summary   // 非零且存在的延误分钟数
	Histogram Histogram // 按该原因的分箱
	// 以下均基于非零且存在的延误
	MeanByMonth    map[int]float64
	MeanByDay      map[int]float64
	DelayedByMonth Counts[int]
	DelayedByDay   Counts[int]
	RateByMonth    map[int]float64 // 该原因延误航班数 / 当月航班数
	RateByDay      map[int]float64
}

// Report 一次分析的全部汇总表
type Report struct {
	Records        int
	FlightsByMonth Counts[int]
	FlightsByDay   Counts[int]
	FlightsByDate  Counts[string] // 键为 2006-01-02，日期未知的记录不计入

	Cancelled            int
	CancelledShare       float64
	CancellationsByCause Counts[model.CancellationCause]
	CancellationsByMonth JointCounts[int, model.CancellationCause]
	CancellationsByDay   JointCounts[int, model.CancellationCause]

	Causes []CauseReport
}

// Dropped 各原因分箱时被丢弃的值的个数
func (r *Report) Dropped() map[model.Cause]int {
	out := make(map[model.Cause]int, len(r.Causes))
	for _, c := range r.Causes {
		out[c.Cause] = c.Histogram.Dropped
	}
	return out
}

// Cause 按原因查找结果
func (r *Report) Cause(c model.Cause) (CauseReport, bool) {
	for _, cr := range r.Causes {
		if cr.Cause == c {
			return cr, true
		}
	}
	return CauseReport{}, false
}

func cancellationCauseOf(r model.FlightRecord) (model.CancellationCause, bool) {
	return r.CancellationCause, r.Cancelled && r.CancellationCause != model.CancelNone
}

func dateOf(r model.FlightRecord) (string, bool) {
	d, ok := r.Date()
	if !ok {
		return "", false
	}
	return d.Format("2006-01-02"), true
}

// Analyze 依次计算单变量、双变量和多变量汇总。records 不会被修改。
// bins 中缺少的原因使用 DefaultBinSets。
func Analyze(records []model.FlightRecord, bins map[model.Cause]BinSet) (*Report, error) {
	monthOf := model.KeyMonth.Of
	dayOf := model.KeyDayOfWeek.Of

	rep := &Report{
		Records:        len(records),
		FlightsByMonth: CountBy(records, monthOf),
		FlightsByDay:   CountBy(records, dayOf),
		FlightsByDate:  Counts[string]{},
	}

	for _, r := range records {
		if d, ok := dateOf(r); ok {
			rep.FlightsByDate[d]++
		}
		if r.Cancelled {
			rep.Cancelled++
		}
	}
	if rep.Records > 0 {
		rep.CancelledShare = float64(rep.Cancelled) / float64(rep.Records)
	}

	var cancelled []model.FlightRecord
	for _, r := range records {
		if _, ok := cancellationCauseOf(r); ok {
			cancelled = append(cancelled, r)
		}
	}
	rep.CancellationsByCause = CountBy(cancelled, func(r model.FlightRecord) model.CancellationCause {
		return r.CancellationCause
	})
	rep.CancellationsByMonth = CountByTwo(records, monthOf, cancellationCauseOf)
	rep.CancellationsByDay = CountByTwo(records, dayOf, cancellationCauseOf)

	defaults := DefaultBinSets()
	for _, cause := range model.DelayCauses {
		set, ok := bins[cause]
		if !ok {
			set = defaults[cause]
		}
		cr, err := analyzeCause(records, cause, set, rep.FlightsByMonth, rep.FlightsByDay)
		if err != nil {
			return nil, fmt.Errorf("analyze %s delays: %w", cause, err)
		}
		rep.Causes = append(rep.Causes, cr)
	}
	return rep, nil
}

func analyzeCause(records []model.FlightRecord, cause model.Cause, set BinSet, byMonth, byDay Counts[int]) (CauseReport, error) {
	value := DelayOf(cause)
	delayed := FilterNonzeroPresent(records, value)
	values := Values(delayed, value)

	hist, err := set.Apply(values)
	if err != nil {
		return CauseReport{}, err
	}

	cr := CauseReport{
		Cause:          cause,
		Describe:       Describe(values),
		Histogram:      hist,
		MeanByMonth:    MeanBy(delayed, model.KeyMonth.Of, value),
		MeanByDay:      MeanBy(delayed, model.KeyDayOfWeek.Of, value),
		DelayedByMonth: CountBy(delayed, model.KeyMonth.Of),
		DelayedByDay:   CountBy(delayed, model.KeyDayOfWeek.Of),
	}

	// 分子只包含出现过该类延误的键，先按航班数的键补 0 再相除
	cr.RateByMonth, err = PercentOf(FillMissing(cr.DelayedByMonth, byMonth.Keys()), byMonth)
	if err != nil {
		return CauseReport{}, fmt.Errorf("rate by month: %w", err)
	}
	cr.RateByDay, err = PercentOf(FillMissing(cr.DelayedByDay, byDay.Keys()), byDay)
	if err != nil {
		return CauseReport{}, fmt.Errorf("rate by day: %w", err)
	}
	return cr, nil
}
