package processor

import (
	"math"

	"DelayInsight/src/model"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table 一张命名的汇总表，交给外部渲染/导出
type Table struct {
	Name  string
	Frame dataframe.DataFrame
}

// Tables 把报告转换为按固定顺序排列的汇总表。
// 键升序，分箱按标签顺序，缺失的均值写 NaN。
func (r *Report) Tables() []Table {
	tables := []Table{
		{Name: "FlightsByMonth", Frame: countsFrame(r.FlightsByMonth, model.KeyMonth)},
		{Name: "FlightsByDay", Frame: countsFrame(r.FlightsByDay, model.KeyDayOfWeek)},
	}

	if len(r.FlightsByDate) > 0 {
		days := r.FlightsByDate.Keys()
		totals := make([]int, len(days))
		for i, d := range days {
			totals[i] = r.FlightsByDate[d]
		}
		tables = append(tables, Table{Name: "FlightsByDate", Frame: dataframe.New(
			series.New(days, series.String, "Day"),
			series.New(totals, series.Int, "Total_Flights"),
		)})
	}

	tables = append(tables,
		Table{Name: "Cancellations", Frame: r.cancellationShareFrame()},
		Table{Name: "CancellationCauses", Frame: r.cancellationCauseFrame()},
		Table{Name: "CancelByMonthCause", Frame: jointFrame(r.CancellationsByMonth, model.KeyMonth, r.FlightsByMonth.Keys())},
		Table{Name: "CancelByDayCause", Frame: jointFrame(r.CancellationsByDay, model.KeyDayOfWeek, r.FlightsByDay.Keys())},
		Table{Name: "DelayDescribe", Frame: r.describeFrame()},
	)

	for _, c := range r.Causes {
		tables = append(tables, Table{Name: "DelayBins_" + string(c.Cause), Frame: histogramFrame(c.Histogram)})
	}

	tables = append(tables,
		Table{Name: "DelayByMonth", Frame: r.delayByKeyFrame(model.KeyMonth, r.FlightsByMonth.Keys())},
		Table{Name: "DelayByDay", Frame: r.delayByKeyFrame(model.KeyDayOfWeek, r.FlightsByDay.Keys())},
	)
	return tables
}

func labels(key model.GroupKey, keys []int) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = key.Label(k)
	}
	return out
}

func countsFrame(c Counts[int], key model.GroupKey) dataframe.DataFrame {
	keys := c.Keys()
	totals := make([]int, len(keys))
	for i, k := range keys {
		totals[i] = c[k]
	}
	return dataframe.New(
		series.New(labels(key, keys), series.String, key.String()),
		series.New(totals, series.Int, "Total_Flights"),
	)
}

func (r *Report) cancellationShareFrame() dataframe.DataFrame {
	notCancelled := r.Records - r.Cancelled
	var share float64
	if r.Records > 0 {
		share = 1 - r.CancelledShare
	}
	return dataframe.New(
		series.New([]string{"Not Cancelled", "Cancelled"}, series.String, "Status"),
		series.New([]int{notCancelled, r.Cancelled}, series.Int, "Count"),
		series.New([]float64{share * 100, r.CancelledShare * 100}, series.Float, "Percent"),
	)
}

func (r *Report) cancellationCauseFrame() dataframe.DataFrame {
	causes := make([]string, 0, len(model.CancellationCauses))
	counts := make([]int, 0, len(model.CancellationCauses))
	for _, c := range model.CancellationCauses {
		causes = append(causes, string(c))
		counts = append(counts, r.CancellationsByCause[c])
	}
	return dataframe.New(
		series.New(causes, series.String, "Cause"),
		series.New(counts, series.Int, "Count"),
	)
}

func jointFrame(j JointCounts[int, model.CancellationCause], key model.GroupKey, keys []int) dataframe.DataFrame {
	grid := j.Grid(keys, model.CancellationCauses)
	cols := []series.Series{series.New(labels(key, keys), series.String, key.String())}
	for n, c := range model.CancellationCauses {
		col := make([]int, len(keys))
		for i := range keys {
			col[i] = grid[i][n]
		}
		cols = append(cols, series.New(col, series.Int, string(c)))
	}
	return dataframe.New(cols...)
}

func (r *Report) describeFrame() dataframe.DataFrame {
	n := len(r.Causes)
	var (
		causes = make([]string, n)
		count  = make([]int, n)
		mean   = make([]float64, n)
		std    = make([]float64, n)
		minV   = make([]float64, n)
		q1     = make([]float64, n)
		median = make([]float64, n)
		q3     = make([]float64, n)
		maxV   = make([]float64, n)
	)
	for i, c := range r.Causes {
		d := c.Describe
		causes[i] = string(c.Cause)
		count[i] = d.Count
		mean[i], std[i], minV[i], maxV[i] = d.Mean, d.Std, d.Min, d.Max
		q1[i], median[i], q3[i] = d.Q1, d.Median, d.Q3
	}
	return dataframe.New(
		series.New(causes, series.String, "Cause"),
		series.New(count, series.Int, "count"),
		series.New(mean, series.Float, "mean"),
		series.New(std, series.Float, "std"),
		series.New(minV, series.Float, "min"),
		series.New(q1, series.Float, "25%"),
		series.New(median, series.Float, "50%"),
		series.New(q3, series.Float, "75%"),
		series.New(maxV, series.Float, "max"),
	)
}

func histogramFrame(h Histogram) dataframe.DataFrame {
	groups := make([]string, len(h.Bins))
	counts := make([]int, len(h.Bins))
	for i, b := range h.Bins {
		groups[i] = b.Label
		counts[i] = b.Count
	}
	return dataframe.New(
		series.New(groups, series.String, "Group"),
		series.New(counts, series.Int, "Count"),
	)
}

// delayByKeyFrame 每个原因两列：非零延误的平均分钟数与延误航班占比
func (r *Report) delayByKeyFrame(key model.GroupKey, keys []int) dataframe.DataFrame {
	cols := []series.Series{series.New(labels(key, keys), series.String, key.String())}
	for _, c := range r.Causes {
		means, rates := c.MeanByMonth, c.RateByMonth
		if key == model.KeyDayOfWeek {
			means, rates = c.MeanByDay, c.RateByDay
		}
		meanCol := make([]float64, len(keys))
		rateCol := make([]float64, len(keys))
		for i, k := range keys {
			meanCol[i] = valueOrNaN(means, k)
			rateCol[i] = valueOrNaN(rates, k)
		}
		cols = append(cols,
			series.New(meanCol, series.Float, "mean_"+string(c.Cause)),
			series.New(rateCol, series.Float, "rate_"+string(c.Cause)),
		)
	}
	return dataframe.New(cols...)
}

func valueOrNaN(m map[int]float64, k int) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return math.NaN()
}
