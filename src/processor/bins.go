package processor

import (
	"errors"
	"fmt"
	"sort"

	"DelayInsight/src/model"
)

// ErrInvalidBins 分箱配置不合法
var ErrInvalidBins = errors.New("invalid bin configuration")

// BinSet 一组固定的分箱边界与标签。
// N+1 个边界定义 N 个区间 [edges[i], edges[i+1])，最后一个区间包含上边界。
type BinSet struct {
	Edges  []float64 `json:"edges"`
	Labels []string  `json:"labels"`
}

// Validate 检查边界严格递增且标签数 = 边界数 - 1
func (b BinSet) Validate() error {
	if len(b.Edges) < 2 {
		return fmt.Errorf("need at least 2 edges, got %d: %w", len(b.Edges), ErrInvalidBins)
	}
	if len(b.Labels) != len(b.Edges)-1 {
		return fmt.Errorf("%d edges need %d labels, got %d: %w",
			len(b.Edges), len(b.Edges)-1, len(b.Labels), ErrInvalidBins)
	}
	for i := 1; i < len(b.Edges); i++ {
		if !(b.Edges[i] > b.Edges[i-1]) {
			return fmt.Errorf("edges not strictly increasing at %d (%g after %g): %w",
				i, b.Edges[i], b.Edges[i-1], ErrInvalidBins)
		}
	}
	return nil
}

// DefaultBinSets 各延误原因的分箱，边界按 describe() 的四分位手工选定
func DefaultBinSets() map[model.Cause]BinSet {
	return map[model.Cause]BinSet{
		model.CauseCarrier: {
			Edges:  []float64{1, 9, 19, 41, 2436},
			Labels: []string{"1-8", "9-18", "19-39", "40-1951"},
		},
		model.CauseWeather: {
			Edges:  []float64{1, 11, 25, 57, 1352},
			Labels: []string{"1-10", "11-24", "25-56", "57-1352"},
		},
		model.CauseNAS: {
			Edges:  []float64{1, 8, 18, 31, 1357},
			Labels: []string{"1-7", "8-17", "18-30", "31-1357"},
		},
		model.CauseSecurity: {
			Edges:  []float64{1, 7, 13, 22, 392},
			Labels: []string{"1-6", "7-12", "13-21", "22-392"},
		},
		model.CauseLateAircraft: {
			Edges:  []float64{1, 12, 27, 58, 1316},
			Labels: []string{"1-11", "12-26", "27-57", "58-1316"},
		},
	}
}

// BinCount 一个分箱的计数
type BinCount struct {
	Label string
	Count int
}

// Histogram 按标签顺序排列的分箱结果。Dropped 是落在所有区间之外被丢弃的值的个数。
type Histogram struct {
	Bins    []BinCount
	Dropped int
}

// Total 参与分箱的值的个数(不含 Dropped)
func (h Histogram) Total() int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}

// BinCounts 用固定边界对 values 分箱。超出边界范围的值不报错，计入 Dropped。
func BinCounts(values []float64, edges []float64, labels []string) (Histogram, error) {
	set := BinSet{Edges: edges, Labels: labels}
	if err := set.Validate(); err != nil {
		return Histogram{}, err
	}

	h := Histogram{Bins: make([]BinCount, len(labels))}
	for i, l := range labels {
		h.Bins[i].Label = l
	}

	last := len(edges) - 1
	for _, v := range values {
		// NaN 与所有边界比较都为 false，落入 Dropped
		if !(v >= edges[0] && v <= edges[last]) {
			h.Dropped++
			continue
		}
		// 第一个大于 v 的边界，v 所在区间为其前一个
		i := sort.SearchFloat64s(edges, v)
		if i < len(edges) && edges[i] == v {
			i++
		}
		idx := i - 1
		if idx >= len(labels) {
			// v 恰好等于最后一个边界
			idx = len(labels) - 1
		}
		h.Bins[idx].Count++
	}
	return h, nil
}

// Apply 用该分箱配置对 values 分箱
func (b BinSet) Apply(values []float64) (Histogram, error) {
	return BinCounts(values, b.Edges, b.Labels)
}
