package insight

// Urgency classifies how soon a recommended referral should happen.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Recommendation is a suggested specialist referral. Specialty doubles as
// the dedup key: at most one recommendation per specialty is returned.
type Recommendation struct {
	Specialty string  `json:"specialty"`
	Title     string  `json:"title"`
	Reason    string  `json:"reason"`
	Urgency   Urgency `json:"urgency"`
}

// maxRecommendations caps the result length. With four rules today the cap
// is not reached by distinct specialties, but it holds as rules grow.
const maxRecommendations = 4

// recommendRule produces a referral when its trigger matches the snapshot.
// Rules are evaluated in order; the first writer wins per specialty.
type recommendRule func(s Snapshot, symptomText string) *Recommendation

var recommendRules = []recommendRule{
	cardiologyRule,
	pulmonologyRule,
	endocrinologyRule,
	behavioralHealthRule,
}

// BuildRecommendations derives up to four deduplicated specialist
// referrals from keyword matches against the snapshot's free-text fields.
// Symptom text is symptoms_current, falling back to conditions, then
// symptoms_past.
func BuildRecommendations(s Snapshot) []Recommendation {
	symptomText := s.SymptomsCurrent
	if symptomText == "" {
		symptomText = s.Conditions
	}
	if symptomText == "" {
		symptomText = s.SymptomsPast
	}

	var out []Recommendation
	seen := map[string]bool{}
	for _, rule := range recommendRules {
		rec := rule(s, symptomText)
		if rec == nil || seen[rec.Specialty] {
			continue
		}
		seen[rec.Specialty] = true
		out = append(out, *rec)
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

func cardiologyRule(s Snapshot, symptomText string) *Recommendation {
	acute := containsAny(symptomText, "chest pain", "shortness of breath")
	matched := acute ||
		containsAny(symptomText, "palpitations") ||
		containsAny(s.FamilyHistory, "heart", "cardiac") ||
		containsAny(s.Conditions, "hypertension")
	if !matched {
		return nil
	}
	urgency := UrgencyMedium
	if acute {
		urgency = UrgencyHigh
	}
	return &Recommendation{
		Specialty: "Cardiology",
		Title:     "See a cardiologist",
		Reason:    "Cardiovascular symptoms, conditions, or family history in your record.",
		Urgency:   urgency,
	}
}

func pulmonologyRule(s Snapshot, symptomText string) *Recommendation {
	smoker := s.SmokingStatus == "regular"
	if !smoker && !containsAny(symptomText, "cough", "wheez", "asthma") {
		return nil
	}
	urgency := UrgencyLow
	if smoker {
		urgency = UrgencyMedium
	}
	return &Recommendation{
		Specialty: "Pulmonology",
		Title:     "See a pulmonologist",
		Reason:    "Respiratory symptoms or smoking habit in your record.",
		Urgency:   urgency,
	}
}

func endocrinologyRule(s Snapshot, symptomText string) *Recommendation {
	if !containsAny(symptomText, "blood sugar", "glucose") && !containsAny(s.Conditions, "diab") {
		return nil
	}
	return &Recommendation{
		Specialty: "Endocrinology",
		Title:     "See an endocrinologist",
		Reason:    "Blood sugar concerns or diabetes-related conditions in your record.",
		Urgency:   UrgencyMedium,
	}
}

func behavioralHealthRule(s Snapshot, _ string) *Recommendation {
	if s.StressLevel != "high" && s.StressLevel != "very_high" {
		return nil
	}
	return &Recommendation{
		Specialty: "Behavioral Health",
		Title:     "Talk to a behavioral health specialist",
		Reason:    "Sustained high stress reported in your record.",
		Urgency:   UrgencyMedium,
	}
}
