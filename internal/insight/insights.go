package insight

import (
	"fmt"
	"strconv"
)

// Severity classifies a single insight.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is one human-readable observation about a snapshot, with a
// suggested next step. The order of a generated list is significant:
// "Overall status" always comes first, followed by the conditional
// insights in a fixed sequence.
type Insight struct {
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Action   string   `json:"action"`
	Severity Severity `json:"severity"`
}

// BuildInsights derives the ordered insight list for a snapshot. The first
// element is always the overall status based on the risk assessment; the
// rest appear only when their condition holds, in a fixed order.
func BuildInsights(s Snapshot) []Insight {
	a := Summarize(s)

	out := []Insight{overallStatus(a)}

	if a.BMI != nil {
		out = append(out, bodyComposition(*a.BMI))
	}
	if s.SleepHours != nil && *s.SleepHours < 7 {
		sev := SeverityMedium
		if *s.SleepHours < 6 {
			sev = SeverityHigh
		}
		out = append(out, Insight{
			Title:    "Sleep hygiene",
			Detail:   fmt.Sprintf("You are averaging %s hours of sleep per night.", num(*s.SleepHours)),
			Action:   "Aim for 7-9 hours with a consistent bedtime.",
			Severity: sev,
		})
	}
	if s.HeartRate != nil && *s.HeartRate > 100 {
		out = append(out, Insight{
			Title:    "Heart rate",
			Detail:   fmt.Sprintf("Resting heart rate of %s bpm is above the typical range.", num(*s.HeartRate)),
			Action:   "Re-measure at rest; consult a clinician if it stays elevated.",
			Severity: SeverityMedium,
		})
	}
	if s.TemperatureC != nil && *s.TemperatureC >= 37.8 {
		out = append(out, Insight{
			Title:    "Fever signal",
			Detail:   fmt.Sprintf("Recorded temperature of %s°C is in fever range.", num(*s.TemperatureC)),
			Action:   "Monitor your temperature and rest; seek care if it persists.",
			Severity: SeverityMedium,
		})
	}
	if s.SpO2 != nil && *s.SpO2 < 94 {
		out = append(out, Insight{
			Title:    "Oxygen saturation",
			Detail:   fmt.Sprintf("SpO2 of %s%% is below the normal range.", num(*s.SpO2)),
			Action:   "Re-check with a pulse oximeter and seek care if it stays low.",
			Severity: SeverityHigh,
		})
	}
	if s.SymptomsCurrent != "" {
		out = append(out, Insight{
			Title:    "Current symptoms",
			Detail:   fmt.Sprintf("You reported: %s.", s.SymptomsCurrent),
			Action:   "Discuss these symptoms during your next consultation.",
			Severity: SeverityMedium,
		})
	}
	if s.StressLevel == "high" || s.StressLevel == "very_high" {
		out = append(out, Insight{
			Title:    "Stress load",
			Detail:   fmt.Sprintf("Stress level is reported as %s.", s.StressLevel),
			Action:   "Build in daily wind-down time; consider talking to a professional.",
			Severity: SeverityMedium,
		})
	}
	if s.ExerciseFrequency == "sedentary" || s.ExerciseFrequency == "light" {
		out = append(out, Insight{
			Title:    "Activity level",
			Detail:   fmt.Sprintf("Activity level is %s.", s.ExerciseFrequency),
			Action:   "Work toward 150 minutes of moderate activity per week.",
			Severity: SeverityMedium,
		})
	}
	if s.SmokingStatus == "regular" || s.SmokingStatus == "occasional" {
		sev := SeverityMedium
		if s.SmokingStatus == "regular" {
			sev = SeverityHigh
		}
		out = append(out, Insight{
			Title:    "Tobacco risk",
			Detail:   fmt.Sprintf("Smoking status is %s.", s.SmokingStatus),
			Action:   "Ask about cessation support; quitting has immediate benefits.",
			Severity: sev,
		})
	}
	if s.AlcoholConsumption == "heavy" || s.AlcoholConsumption == "moderate" {
		sev := SeverityMedium
		if s.AlcoholConsumption == "heavy" {
			sev = SeverityHigh
		}
		out = append(out, Insight{
			Title:    "Alcohol use",
			Detail:   fmt.Sprintf("Alcohol consumption is %s.", s.AlcoholConsumption),
			Action:   "Set weekly limits and schedule alcohol-free days.",
			Severity: sev,
		})
	}
	if containsAny(s.FamilyHistory, "heart", "stroke", "cancer") {
		out = append(out, Insight{
			Title:    "Family history flags",
			Detail:   fmt.Sprintf("Family history mentions: %s.", s.FamilyHistory),
			Action:   "Mention this history to your doctor for screening guidance.",
			Severity: SeverityMedium,
		})
	}
	if s.Conditions != "" {
		out = append(out, Insight{
			Title:    "Chronic conditions",
			Detail:   fmt.Sprintf("Recorded conditions: %s.", s.Conditions),
			Action:   "Keep regular follow-ups and medication reviews for these.",
			Severity: SeverityMedium,
		})
	}

	return out
}

func overallStatus(a Assessment) Insight {
	ins := Insight{Title: "Overall status", Detail: a.Summary}
	switch a.Level {
	case LevelAction:
		ins.Action = "Book a clinician review to go over the flagged factors."
		ins.Severity = SeverityHigh
	case LevelWatch:
		ins.Action = "Track the flagged areas weekly and recheck your numbers."
		ins.Severity = SeverityMedium
	default:
		ins.Action = "Maintain your current habits and recheck periodically."
		ins.Severity = SeverityLow
	}
	return ins
}

func bodyComposition(bmi float64) Insight {
	ins := Insight{Title: "Body composition"}
	switch {
	case bmi >= 30:
		ins.Detail = fmt.Sprintf("BMI of %s is in the obese range.", num(bmi))
		ins.Action = "Discuss a weight management plan with your doctor."
		ins.Severity = SeverityHigh
	case bmi >= 25:
		ins.Detail = fmt.Sprintf("BMI of %s is in the overweight range.", num(bmi))
		ins.Action = "Small diet and activity changes can bring this down."
		ins.Severity = SeverityMedium
	case bmi < 18.5:
		ins.Detail = fmt.Sprintf("BMI of %s is below the healthy range.", num(bmi))
		ins.Action = "Consider a nutrition review to reach a healthy weight."
		ins.Severity = SeverityHigh
	default:
		ins.Detail = fmt.Sprintf("BMI of %s is in the healthy range.", num(bmi))
		ins.Action = "Keep up your current diet and activity."
		ins.Severity = SeverityLow
	}
	return ins
}

// num formats a value the way it was entered: no trailing zeros, no
// exponent, so 5 renders as "5" and 37.9 as "37.9".
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
