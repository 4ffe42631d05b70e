package processor

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	if s.Count != 4 {
		t.Errorf("Count = %d", s.Count)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("Min/Max = %v/%v", s.Min, s.Max)
	}
	if !approx(s.Mean, 2.5) {
		t.Errorf("Mean = %v", s.Mean)
	}
	// 线性插值四分位
	if !approx(s.Q1, 1.75) || !approx(s.Median, 2.5) || !approx(s.Q3, 3.25) {
		t.Errorf("quartiles = %v %v %v", s.Q1, s.Median, s.Q3)
	}
	if !approx(s.Std, math.Sqrt(5.0/3.0)) {
		t.Errorf("Std = %v", s.Std)
	}
}

func TestDescribeEdgeCases(t *testing.T) {
	if s := Describe(nil); s.Count != 0 || s.Mean != 0 || !math.IsNaN(s.Std) {
		t.Errorf("Describe(nil) = %+v", s)
	}

	// 单个值没有样本标准差
	s := Describe([]float64{42})
	if s.Count != 1 || s.Mean != 42 || !math.IsNaN(s.Std) || s.Median != 42 || s.Q3 != 42 {
		t.Errorf("Describe single = %+v", s)
	}
}

func TestDescribeDoesNotSortInput(t *testing.T) {
	in := []float64{3, 1, 2}
	_ = Describe(in)
	if in[0] != 3 || in[1] != 1 {
		t.Errorf("input reordered: %v", in)
	}
}
