package insight

import (
	"math"
	"testing"
)

// TestCoerceNumber verifies that every numeric-like raw value that parses
// to a finite number is kept, and everything else is reported absent.
func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 72.5, 72.5, true},
		{"int", 180, 180, true},
		{"numeric string", "95", 95, true},
		{"padded numeric string", "  5.5 ", 5.5, true},
		{"empty string", "", 0, false},
		{"whitespace string", "   ", 0, false},
		{"word string", "tall", 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"slice", []string{"1"}, 0, false},
		{"map", map[string]any{"qty": 1}, 0, false},
	}
	for _, tc := range cases {
		got, ok := coerceNumber(tc.in)
		if ok != tc.ok {
			t.Errorf("%s: coerceNumber(%v) ok = %v, want %v", tc.name, tc.in, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("%s: coerceNumber(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

// TestCoerceString verifies trimming, number stringification, and that
// non-string non-number values are discarded.
func TestCoerceString(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"plain", "Mumbai", "Mumbai"},
		{"padded", "  chest pain  ", "chest pain"},
		{"empty", "", ""},
		{"whitespace", "  \t ", ""},
		{"float", 120.5, "120.5"},
		{"whole float", 80.0, "80"},
		{"int", 42, "42"},
		{"nan", math.NaN(), ""},
		{"inf", math.Inf(-1), ""},
		{"bool", false, ""},
		{"nil", nil, ""},
		{"slice", []int{1}, ""},
	}
	for _, tc := range cases {
		if got := coerceString(tc.in); got != tc.want {
			t.Errorf("%s: coerceString(%v) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

// TestNormalizeNilRecord verifies that a nil record yields an empty
// snapshot instead of failing.
func TestNormalizeNilRecord(t *testing.T) {
	s := Normalize(nil)
	if s.FullName != "" {
		t.Errorf("FullName = %q, want empty", s.FullName)
	}
	if s.Age != nil || s.HeightCm != nil || s.WeightKg != nil {
		t.Error("expected all numeric fields absent on nil record")
	}
}

// TestNormalizeMixedRecord exercises string and number coercion across a
// realistic record, including unknown keys and malformed values.
func TestNormalizeMixedRecord(t *testing.T) {
	s := Normalize(RawRecord{
		"full_name":       "  Asha Rao ",
		"age":             "34",
		"height":          170,
		"weight":          "not sure",
		"heart_rate":      88.0,
		"sleep_hours":     math.NaN(),
		"symptoms_current": "mild cough",
		"stress_level":    "   ",
		"blood_pressure":  120, // numbers stringify for string fields
		"favorite_color":  "blue",
	})

	if s.FullName != "Asha Rao" {
		t.Errorf("FullName = %q, want %q", s.FullName, "Asha Rao")
	}
	if s.Age == nil || *s.Age != 34 {
		t.Errorf("Age = %v, want 34", s.Age)
	}
	if s.HeightCm == nil || *s.HeightCm != 170 {
		t.Errorf("HeightCm = %v, want 170", s.HeightCm)
	}
	if s.WeightKg != nil {
		t.Errorf("WeightKg = %v, want absent", *s.WeightKg)
	}
	if s.HeartRate == nil || *s.HeartRate != 88 {
		t.Errorf("HeartRate = %v, want 88", s.HeartRate)
	}
	if s.SleepHours != nil {
		t.Errorf("SleepHours = %v, want absent", *s.SleepHours)
	}
	if s.SymptomsCurrent != "mild cough" {
		t.Errorf("SymptomsCurrent = %q, want %q", s.SymptomsCurrent, "mild cough")
	}
	if s.StressLevel != "" {
		t.Errorf("StressLevel = %q, want empty", s.StressLevel)
	}
	if s.BloodPressure != "120" {
		t.Errorf("BloodPressure = %q, want %q", s.BloodPressure, "120")
	}
}

// TestNormalizeIdempotent verifies that round-tripping a snapshot's fields
// back through normalization reproduces the same snapshot.
func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(RawRecord{
		"full_name":   "Ravi",
		"age":         41,
		"height":      "181.5",
		"weight":      77,
		"sleep_hours": 6.5,
		"conditions":  "hypertension",
		"spo2":        "97",
	})

	// Rebuild a raw record the way a persistence layer would: strings for
	// text fields, plain numbers for numeric ones.
	raw := RawRecord{
		"full_name":   first.FullName,
		"age":         *first.Age,
		"height":      *first.HeightCm,
		"weight":      *first.WeightKg,
		"sleep_hours": *first.SleepHours,
		"conditions":  first.Conditions,
		"spo2":        *first.SpO2,
	}
	second := Normalize(raw)

	if second.FullName != first.FullName || second.Conditions != first.Conditions {
		t.Error("string fields changed across round trip")
	}
	for name, pair := range map[string][2]*float64{
		"age":         {first.Age, second.Age},
		"height":      {first.HeightCm, second.HeightCm},
		"weight":      {first.WeightKg, second.WeightKg},
		"sleep_hours": {first.SleepHours, second.SleepHours},
		"spo2":        {first.SpO2, second.SpO2},
	} {
		if pair[0] == nil || pair[1] == nil || *pair[0] != *pair[1] {
			t.Errorf("%s changed across round trip: %v vs %v", name, pair[0], pair[1])
		}
	}
}
