// aggregate.go
package processor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"DelayInsight/src/model"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrKeyMismatch PercentOf 的分子分母键集合不一致
	ErrKeyMismatch = errors.New("key sets of numerators and denominators differ")
	// ErrDivisionByZero 分母为 0
	ErrDivisionByZero = errors.New("division by zero")
)

// Number PercentOf 接受的数值类型
type Number interface {
	~int | ~int64 | ~float64
}

// ValueFunc 从记录中取出可缺失的数值
type ValueFunc func(model.FlightRecord) model.Minutes

// DelayOf 返回取某原因延误分钟数的 ValueFunc
func DelayOf(c model.Cause) ValueFunc {
	return func(r model.FlightRecord) model.Minutes {
		return r.Delay(c)
	}
}

// Counts 分组计数
type Counts[K cmp.Ordered] map[K]int

// Keys 键升序
func (c Counts[K]) Keys() []K {
	return SortedKeys(c)
}

// Total 所有计数之和
func (c Counts[K]) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Merge 合并另一分片的计数，返回新的 Counts
func (c Counts[K]) Merge(other Counts[K]) Counts[K] {
	out := make(Counts[K], len(c)+len(other))
	for k, n := range c {
		out[k] += n
	}
	for k, n := range other {
		out[k] += n
	}
	return out
}

// SortedKeys 返回 map 的键并升序排列
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CountBy 按分组键统计记录数。空输入返回空 map。
func CountBy[K cmp.Ordered](records []model.FlightRecord, key func(model.FlightRecord) K) Counts[K] {
	out := make(Counts[K])
	for _, r := range records {
		out[key(r)]++
	}
	return out
}

// MeanBy 按分组键计算数值均值，缺失值不参与计算。
// 没有任何有效值的键不会出现在结果中，调用方不能假设 12 个月或 7 天都在。
func MeanBy[K cmp.Ordered](records []model.FlightRecord, key func(model.FlightRecord) K, value ValueFunc) map[K]float64 {
	groups := make(map[K][]float64)
	for _, r := range records {
		v, ok := value(r).Get()
		if !ok {
			continue
		}
		k := key(r)
		groups[k] = append(groups[k], v)
	}

	out := make(map[K]float64, len(groups))
	for k, vs := range groups {
		out[k] = stat.Mean(vs, nil)
	}
	return out
}

// Pair CountByTwo 的联合键
type Pair[K, S cmp.Ordered] struct {
	Key K
	Sub S
}

// JointCounts 两个维度的联合计数，只包含实际出现过的组合
type JointCounts[K, S cmp.Ordered] map[Pair[K, S]]int

// Keys 按 (Key, Sub) 升序返回全部组合
func (j JointCounts[K, S]) Keys() []Pair[K, S] {
	keys := make([]Pair[K, S], 0, len(j))
	for p := range j {
		keys = append(keys, p)
	}
	slices.SortFunc(keys, func(a, b Pair[K, S]) int {
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return cmp.Compare(a.Sub, b.Sub)
	})
	return keys
}

// Grid 补全为稠密网格，缺失的组合填 0，供需要完整矩阵的渲染方使用
func (j JointCounts[K, S]) Grid(keys []K, subs []S) [][]int {
	grid := make([][]int, len(keys))
	for i, k := range keys {
		grid[i] = make([]int, len(subs))
		for n, s := range subs {
			grid[i][n] = j[Pair[K, S]{Key: k, Sub: s}]
		}
	}
	return grid
}

// CountByTwo 按两个维度联合计数。sub 返回 false 的记录(例如未取消航班没有取消原因)不计入。
func CountByTwo[K, S cmp.Ordered](records []model.FlightRecord, key func(model.FlightRecord) K, sub func(model.FlightRecord) (S, bool)) JointCounts[K, S] {
	out := make(JointCounts[K, S])
	for _, r := range records {
		s, ok := sub(r)
		if !ok {
			continue
		}
		out[Pair[K, S]{Key: key(r), Sub: s}]++
	}
	return out
}

// FilterNonzeroPresent 保留数值存在且严格大于 0 的记录
func FilterNonzeroPresent(records []model.FlightRecord, value ValueFunc) []model.FlightRecord {
	out := make([]model.FlightRecord, 0, len(records))
	for _, r := range records {
		if value(r).Positive() {
			out = append(out, r)
		}
	}
	return out
}

// Values 取出全部存在的数值
func Values(records []model.FlightRecord, value ValueFunc) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := value(r).Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// FillMissing 返回补齐 domain 中缺失键(值为 0)的副本
func FillMissing[K comparable, V Number](m map[K]V, domain []K) map[K]V {
	out := make(map[K]V, len(domain))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range domain {
		if _, ok := out[k]; !ok {
			out[k] = 0
		}
	}
	return out
}

// PercentOf 逐键相除得到比率(不乘 100)。
// 两个 map 的键集合必须完全一致，否则返回 ErrKeyMismatch；分母为 0 返回 ErrDivisionByZero。
func PercentOf[K cmp.Ordered, N, D Number](numerators map[K]N, denominators map[K]D) (map[K]float64, error) {
	if len(numerators) != len(denominators) {
		return nil, fmt.Errorf("percent of: %d numerator keys vs %d denominator keys: %w",
			len(numerators), len(denominators), ErrKeyMismatch)
	}

	out := make(map[K]float64, len(numerators))
	for _, k := range SortedKeys(numerators) {
		d, ok := denominators[k]
		if !ok {
			return nil, fmt.Errorf("percent of: key %v has no denominator: %w", k, ErrKeyMismatch)
		}
		if d == 0 {
			return nil, fmt.Errorf("percent of: key %v: %w", k, ErrDivisionByZero)
		}
		out[k] = float64(numerators[k]) / float64(d)
	}
	return out, nil
}
