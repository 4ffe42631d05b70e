package processor

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary describe() 的八个统计量：个数、均值、标准差、最小值、四分位数、最大值
type Summary struct {
	Count  int
	Mean   float64
	Std    float64 // 样本标准差，Count < 2 时为 NaN
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe 计算描述统计。空输入返回 Count 为 0 的 Summary。
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{Std: math.NaN()}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
	}
	if len(sorted) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean, s.Std = sorted[0], math.NaN()
	}
	return s
}

// quantile 在位置 p*(n-1) 上线性插值，与 describe() 的四分位一致
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := math.Floor(pos)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - lo
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}
