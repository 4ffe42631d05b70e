package model

import (
	"errors"
	"testing"
	"time"
)

func TestMinutesPresentVersusAbsent(t *testing.T) {
	zero := Present(0)
	if v, ok := zero.Get(); !ok || v != 0 {
		t.Errorf("Present(0).Get() = %v, %v; want 0, true", v, ok)
	}
	if zero.Positive() {
		t.Error("Present(0) should not be positive")
	}

	missing := Absent()
	if missing.IsPresent() {
		t.Error("Absent() should not be present")
	}
	if missing.String() != "NaN" {
		t.Errorf("Absent().String() = %q, want NaN", missing.String())
	}

	var zeroValue Minutes
	if zeroValue.IsPresent() {
		t.Error("zero value Minutes should be absent")
	}
	if !Present(12.5).Positive() {
		t.Error("Present(12.5) should be positive")
	}
}

func TestDelaysWithAndGet(t *testing.T) {
	var d Delays
	for i, c := range DelayCauses {
		d = d.With(c, Present(float64(i+1)))
	}
	for i, c := range DelayCauses {
		v, ok := d.Get(c).Get()
		if !ok || v != float64(i+1) {
			t.Errorf("Get(%s) = %v, %v; want %d, true", c, v, ok, i+1)
		}
	}
	if d.Get(Cause("bogus")).IsPresent() {
		t.Error("unknown cause should be absent")
	}
}

func TestParseCauses(t *testing.T) {
	if c, err := ParseCause("NAS"); err != nil || c != CauseNAS {
		t.Errorf("ParseCause(NAS) = %v, %v", c, err)
	}
	if _, err := ParseCause("nas"); err == nil {
		t.Error("ParseCause should be case sensitive")
	}
	if c, err := ParseCancellationCause(""); err != nil || c != CancelNone {
		t.Errorf("ParseCancellationCause(\"\") = %v, %v", c, err)
	}
	if _, err := ParseCancellationCause("late_aircraft"); err == nil {
		t.Error("late_aircraft is not a cancellation cause")
	}
}

func TestFlightRecordDate(t *testing.T) {
	r := FlightRecord{Year: 2008, Month: 2, DayOfMonth: 29, DayOfWeek: 5}
	d, ok := r.Date()
	if !ok {
		t.Fatal("expected a date")
	}
	if !d.Equal(time.Date(2008, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date() = %v", d)
	}

	if _, ok := (FlightRecord{Year: 2007, Month: 2, DayOfMonth: 29}).Date(); ok {
		t.Error("2007-02-29 should not be a valid date")
	}
	if _, ok := (FlightRecord{Month: 3, DayOfMonth: 1}).Date(); ok {
		t.Error("unknown year should yield no date")
	}
}

func TestFlightRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  FlightRecord
		field   string
		wantErr bool
	}{
		{
			name:   "normal flight",
			record: FlightRecord{Month: 1, DayOfWeek: 1},
		},
		{
			name:   "cancelled with cause",
			record: FlightRecord{Month: 12, DayOfWeek: 7, Cancelled: true, CancellationCause: CancelWeather},
		},
		{
			name:    "cause without cancellation",
			record:  FlightRecord{Month: 1, DayOfWeek: 1, CancellationCause: CancelCarrier},
			field:   "cancellation_cause",
			wantErr: true,
		},
		{
			name:   "cancelled with unknown cause",
			record: FlightRecord{Month: 1, DayOfWeek: 1, Cancelled: true},
		},
		{
			name:    "month out of range",
			record:  FlightRecord{Month: 13, DayOfWeek: 1},
			field:   "month",
			wantErr: true,
		},
		{
			name:    "day of week zero",
			record:  FlightRecord{Month: 1, DayOfWeek: 0},
			field:   "day_of_week",
			wantErr: true,
		},
		{
			name:    "negative delay",
			record:  FlightRecord{Month: 1, DayOfWeek: 1, Delays: Delays{Weather: Present(-3)}},
			field:   "weather",
			wantErr: true,
		},
		{
			name:   "zero delay is fine",
			record: FlightRecord{Month: 1, DayOfWeek: 1, Delays: Delays{Weather: Present(0)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var die *DataIntegrityError
			if !errors.As(err, &die) {
				t.Fatalf("expected DataIntegrityError, got %v", err)
			}
			if die.Field != tt.field {
				t.Errorf("Field = %q, want %q", die.Field, tt.field)
			}
		})
	}
}

func TestDataIntegrityErrorMessage(t *testing.T) {
	err := &DataIntegrityError{Row: 7, Field: "month", Reason: "bad"}
	if got := err.Error(); got != "data integrity: row 7: month: bad" {
		t.Errorf("Error() = %q", got)
	}
	err.Row = 0
	if got := err.Error(); got != "data integrity: month: bad" {
		t.Errorf("Error() = %q", got)
	}
}
