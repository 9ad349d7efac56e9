package insight

import (
	"math"
	"strings"
)

// Level is the qualitative outcome of a risk assessment.
type Level string

const (
	LevelGood   Level = "good"
	LevelWatch  Level = "watch"
	LevelAction Level = "action"
)

// Assessment is the result of scoring a snapshot: an overall level, a
// one-sentence summary, the computed BMI (nil when height or weight is
// missing), and one reason per triggered risk factor in evaluation order.
type Assessment struct {
	Level   Level    `json:"level"`
	Summary string   `json:"summary"`
	BMI     *float64 `json:"bmi,omitempty"`
	Reasons []string `json:"reasons"`
}

const (
	summaryGood   = "Your health record looks stable with no major risk factors."
	summaryWatch  = "A few areas in your health record are worth monitoring."
	summaryAction = "Several risk factors in your health record need attention."
)

// riskRule is one entry in the ordered scoring table. Rules are independent;
// each appends its reason and score delta only when its condition holds.
type riskRule struct {
	applies func(s Snapshot, bmi *float64) bool
	delta   int
	reason  string
}

var riskRules = []riskRule{
	{func(_ Snapshot, bmi *float64) bool { return bmi != nil && *bmi >= 30 }, 2, "BMI in obese range"},
	{func(_ Snapshot, bmi *float64) bool { return bmi != nil && *bmi >= 25 && *bmi < 30 }, 1, "BMI in overweight range"},
	{func(s Snapshot, _ *float64) bool { return s.SleepHours != nil && *s.SleepHours < 6 }, 1, "Low sleep (<6h)"},
	{func(s Snapshot, _ *float64) bool { return s.StressLevel == "high" || s.StressLevel == "very_high" }, 1, "Elevated stress"},
	{func(s Snapshot, _ *float64) bool { return s.SmokingStatus == "regular" }, 2, "Smoking habit"},
	{func(s Snapshot, _ *float64) bool {
		return s.SmokingStatus == "occasional" || s.SmokingStatus == "former"
	}, 1, "Smoking history"},
	{func(s Snapshot, _ *float64) bool { return s.AlcoholConsumption == "heavy" }, 2, "Heavy alcohol intake"},
	{func(s Snapshot, _ *float64) bool { return s.AlcoholConsumption == "moderate" }, 1, "Moderate alcohol intake"},
	{func(s Snapshot, _ *float64) bool { return s.HeartRate != nil && *s.HeartRate > 100 }, 1, "Elevated heart rate"},
	{func(s Snapshot, _ *float64) bool { return s.TemperatureC != nil && *s.TemperatureC >= 37.8 }, 1, "Fever-range temperature"},
	{func(s Snapshot, _ *float64) bool { return s.SpO2 != nil && *s.SpO2 < 94 }, 1, "Low oxygen saturation"},
	{func(s Snapshot, _ *float64) bool {
		return containsAny(s.FamilyHistory, "heart", "cardiac", "stroke")
	}, 1, "Cardiovascular family history"},
	{func(s Snapshot, _ *float64) bool {
		return containsAny(s.Conditions, "diab", "hypertension", "bp", "blood pressure")
	}, 1, "Chronic condition risk"},
}

// Summarize computes the weighted risk score for a snapshot. It is total:
// missing fields simply fail to trigger their checks.
func Summarize(s Snapshot) Assessment {
	bmi := BMI(s.HeightCm, s.WeightKg)

	score := 0
	var reasons []string
	for _, r := range riskRules {
		if r.applies(s, bmi) {
			score += r.delta
			reasons = append(reasons, r.reason)
		}
	}

	level := LevelGood
	summary := summaryGood
	switch {
	case score >= 4:
		level, summary = LevelAction, summaryAction
	case score >= 2:
		level, summary = LevelWatch, summaryWatch
	}

	return Assessment{Level: level, Summary: summary, BMI: bmi, Reasons: reasons}
}

// BMI computes weight_kg / height_m^2 rounded to one decimal. Nil when
// either input is missing or height is not positive, so a zero height can
// never produce Inf/NaN.
func BMI(heightCm, weightKg *float64) *float64 {
	if heightCm == nil || weightKg == nil || *heightCm <= 0 {
		return nil
	}
	m := *heightCm / 100
	v := math.Round(*weightKg/(m*m)*10) / 10
	return &v
}

// containsAny reports whether any needle occurs in s, case-insensitively.
// Deliberately plain substring search with no word boundaries; "bp" matching
// inside an unrelated word is accepted behavior.
func containsAny(s string, needles ...string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
