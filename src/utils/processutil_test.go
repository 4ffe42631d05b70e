package utils

import (
	"math"
	"testing"

	"github.com/go-gota/gota/series"
)

func TestIsMissing(t *testing.T) {
	s := series.New([]string{"", "NA", " ", "12"}, series.String, "x")
	want := []bool{true, false, true, false}
	// "NA" 只有在加载时声明为缺失值才是 NA
	for i, w := range want {
		if got := IsMissing(s.Elem(i)); got != w {
			t.Errorf("IsMissing(%q) = %v, want %v", s.Elem(i).String(), got, w)
		}
	}
}

func TestCellValue(t *testing.T) {
	f := series.New([]float64{1.5, math.NaN()}, series.Float, "f")
	if v := CellValue(f.Elem(0)); v != 1.5 {
		t.Errorf("CellValue(1.5) = %v", v)
	}
	if v := CellValue(f.Elem(1)); v != nil {
		t.Errorf("CellValue(NaN) = %v, want nil", v)
	}

	i := series.New([]int{7}, series.Int, "i")
	if v := CellValue(i.Elem(0)); v != 7 {
		t.Errorf("CellValue(7) = %v", v)
	}

	s := series.New([]string{"Jan"}, series.String, "s")
	if v := CellValue(s.Elem(0)); v != "Jan" {
		t.Errorf("CellValue(Jan) = %v", v)
	}
}

func TestAllEmpty(t *testing.T) {
	if !AllEmpty([]string{"", "  "}) {
		t.Error("blank row should be empty")
	}
	if AllEmpty([]string{"", "x"}) {
		t.Error("row with value should not be empty")
	}
}
