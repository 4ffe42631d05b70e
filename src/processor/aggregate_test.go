package processor

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"DelayInsight/src/model"
)

func cancelled(month int, cause model.CancellationCause) model.FlightRecord {
	return model.FlightRecord{Month: month, DayOfWeek: 1, Cancelled: true, CancellationCause: cause}
}

func flown(month int) model.FlightRecord {
	return model.FlightRecord{Month: month, DayOfWeek: 1}
}

func withWeather(month int, m model.Minutes) model.FlightRecord {
	r := flown(month)
	r.Delays = r.Delays.With(model.CauseWeather, m)
	return r
}

func TestCountByRoundTrip(t *testing.T) {
	records := []model.FlightRecord{
		cancelled(1, model.CancelWeather),
		flown(1),
		cancelled(2, model.CancelCarrier),
	}

	got := CountBy(records, model.KeyMonth.Of)
	want := Counts[int]{1: 2, 2: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountBy = %v, want %v", got, want)
	}

	joint := CountByTwo(records, model.KeyMonth.Of, cancellationCauseOf)
	wantJoint := JointCounts[int, model.CancellationCause]{
		{Key: 1, Sub: model.CancelWeather}: 1,
		{Key: 2, Sub: model.CancelCarrier}: 1,
	}
	if !reflect.DeepEqual(joint, wantJoint) {
		t.Errorf("CountByTwo = %v, want %v", joint, wantJoint)
	}
}

func TestCountByTotalsLength(t *testing.T) {
	var records []model.FlightRecord
	for i := 0; i < 100; i++ {
		records = append(records, model.FlightRecord{Month: i%12 + 1, DayOfWeek: i%7 + 1})
	}

	for _, key := range []model.GroupKey{model.KeyMonth, model.KeyDayOfWeek} {
		c := CountBy(records, key.Of)
		if c.Total() != len(records) {
			t.Errorf("%s: total %d, want %d", key, c.Total(), len(records))
		}
	}

	if got := CountBy(nil, model.KeyMonth.Of); len(got) != 0 {
		t.Errorf("empty input produced %v", got)
	}
}

func TestCountsKeysAscending(t *testing.T) {
	c := Counts[int]{12: 1, 3: 4, 7: 2, 1: 9}
	if got := c.Keys(); !reflect.DeepEqual(got, []int{1, 3, 7, 12}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestCountsMerge(t *testing.T) {
	a := Counts[int]{1: 2, 2: 1}
	b := Counts[int]{2: 3, 5: 1}
	got := a.Merge(b)
	want := Counts[int]{1: 2, 2: 4, 5: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
	// 输入不被修改
	if a[2] != 1 || b[2] != 3 {
		t.Error("Merge mutated its inputs")
	}
}

func TestMeanBySingleContributor(t *testing.T) {
	records := []model.FlightRecord{
		withWeather(3, model.Present(17.25)),
		withWeather(4, model.Absent()),
	}
	got := MeanBy(records, model.KeyMonth.Of, DelayOf(model.CauseWeather))
	if got[3] != 17.25 {
		t.Errorf("mean for month 3 = %v, want 17.25", got[3])
	}
	if _, ok := got[4]; ok {
		t.Error("month with no contributing record should be omitted")
	}
}

func TestMeanByExcludesZeroAndAbsentAfterFilter(t *testing.T) {
	records := []model.FlightRecord{
		withWeather(6, model.Present(0)),
		withWeather(6, model.Present(5)),
		withWeather(6, model.Absent()),
		withWeather(6, model.Present(10)),
	}
	value := DelayOf(model.CauseWeather)

	filtered := FilterNonzeroPresent(records, value)
	if len(filtered) != 2 {
		t.Fatalf("FilterNonzeroPresent kept %d records, want 2", len(filtered))
	}
	if got := MeanBy(filtered, model.KeyMonth.Of, value)[6]; got != 7.5 {
		t.Errorf("filtered mean = %v, want 7.5", got)
	}

	// 不过滤时 0 参与计算，缺失值不参与
	if got := MeanBy(records, model.KeyMonth.Of, value)[6]; got != 5 {
		t.Errorf("unfiltered mean = %v, want 5", got)
	}
}

func TestFilterNonzeroPresentDoesNotMutate(t *testing.T) {
	records := []model.FlightRecord{withWeather(1, model.Present(0)), withWeather(2, model.Present(3))}
	before := append([]model.FlightRecord(nil), records...)
	_ = FilterNonzeroPresent(records, DelayOf(model.CauseWeather))
	if !reflect.DeepEqual(records, before) {
		t.Error("input slice was modified")
	}
}

func TestJointCountsGridFillsZeros(t *testing.T) {
	j := JointCounts[int, model.CancellationCause]{
		{Key: 1, Sub: model.CancelWeather}: 4,
		{Key: 3, Sub: model.CancelNAS}:     2,
	}
	grid := j.Grid([]int{1, 2, 3}, model.CancellationCauses)
	want := [][]int{
		{0, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 2, 0},
	}
	if !reflect.DeepEqual(grid, want) {
		t.Errorf("Grid = %v, want %v", grid, want)
	}

	keys := j.Keys()
	if len(keys) != 2 || keys[0].Key != 1 || keys[1].Key != 3 {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestPercentOfIdentity(t *testing.T) {
	base := map[int]float64{1: 0.5, 2: 12, 7: 3.25}
	ones := map[int]int{1: 1, 2: 1, 7: 1}
	got, err := PercentOf(base, ones)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, base) {
		t.Errorf("PercentOf = %v, want %v", got, base)
	}
}

func TestPercentOfErrors(t *testing.T) {
	tests := []struct {
		name string
		num  map[int]int
		den  map[int]int
		want error
	}{
		{"missing denominator key", map[int]int{1: 1, 2: 1}, map[int]int{1: 2, 3: 2}, ErrKeyMismatch},
		{"extra denominator key", map[int]int{1: 1}, map[int]int{1: 2, 2: 2}, ErrKeyMismatch},
		{"zero denominator", map[int]int{1: 1, 2: 1}, map[int]int{1: 2, 2: 0}, ErrDivisionByZero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PercentOf(tt.num, tt.den)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPercentOfCounts(t *testing.T) {
	delayed := Counts[int]{1: 1}
	flights := Counts[int]{1: 4, 2: 5}
	got, err := PercentOf(FillMissing(delayed, flights.Keys()), flights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1] != 0.25 || got[2] != 0 {
		t.Errorf("PercentOf = %v", got)
	}
}

func TestValuesSkipsAbsent(t *testing.T) {
	records := []model.FlightRecord{
		withWeather(1, model.Present(2)),
		withWeather(1, model.Absent()),
		withWeather(1, model.Present(0)),
	}
	got := Values(records, DelayOf(model.CauseWeather))
	if !reflect.DeepEqual(got, []float64{2, 0}) {
		t.Errorf("Values = %v", got)
	}
	if math.IsNaN(got[0]) {
		t.Error("unexpected NaN")
	}
}
