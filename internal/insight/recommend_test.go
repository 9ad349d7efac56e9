package insight

import "testing"

func specialties(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Specialty
	}
	return out
}

func findRec(recs []Recommendation, specialty string) *Recommendation {
	for i := range recs {
		if recs[i].Specialty == specialty {
			return &recs[i]
		}
	}
	return nil
}

// TestRecommendationsCompositeFixture: the hypertensive smoker with chest
// pain gets a Cardiology referral and never a Primary Care one (no such
// rule exists in this engine).
func TestRecommendationsCompositeFixture(t *testing.T) {
	recs := BuildRecommendations(Normalize(RawRecord{
		"conditions":       "hypertension",
		"family_history":   "heart disease",
		"smoking_status":   "regular",
		"sleep_hours":      6,
		"stress_level":     "high",
		"symptoms_current": "chest pain",
		"location":         "Mumbai",
	}))

	cardio := findRec(recs, "Cardiology")
	if cardio == nil {
		t.Fatalf("specialties = %v, want Cardiology present", specialties(recs))
	}
	if cardio.Urgency != UrgencyHigh {
		t.Errorf("cardiology urgency = %q, want %q (chest pain matched)", cardio.Urgency, UrgencyHigh)
	}
	if findRec(recs, "Primary Care") != nil || findRec(recs, "General Physician") != nil {
		t.Errorf("specialties = %v, primary care must never be generated", specialties(recs))
	}
}

// TestRecommendationsDedup: multiple independent cardiology triggers yield
// exactly one Cardiology entry with the first-evaluated rule's content.
func TestRecommendationsDedup(t *testing.T) {
	recs := BuildRecommendations(Normalize(RawRecord{
		"symptoms_current": "palpitations",
		"family_history":   "cardiac arrest in family",
		"conditions":       "hypertension",
	}))

	count := 0
	for _, r := range recs {
		if r.Specialty == "Cardiology" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("cardiology entries = %d, want 1 (%v)", count, specialties(recs))
	}
	// Palpitations alone (without chest pain / shortness of breath) is
	// medium urgency.
	if rec := findRec(recs, "Cardiology"); rec.Urgency != UrgencyMedium {
		t.Errorf("urgency = %q, want %q", rec.Urgency, UrgencyMedium)
	}
}

// TestRecommendationsSymptomFallback: matching text falls back from
// current symptoms to conditions to past symptoms.
func TestRecommendationsSymptomFallback(t *testing.T) {
	cases := []struct {
		name string
		raw  RawRecord
		want string
	}{
		{"current symptoms win", RawRecord{"symptoms_current": "wheezing", "conditions": "diabetes"}, "Pulmonology"},
		{"conditions next", RawRecord{"conditions": "asthma"}, "Pulmonology"},
		{"past symptoms last", RawRecord{"symptoms_past": "high blood sugar episodes"}, "Endocrinology"},
	}
	for _, tc := range cases {
		recs := BuildRecommendations(Normalize(tc.raw))
		if findRec(recs, tc.want) == nil {
			t.Errorf("%s: specialties = %v, want %v", tc.name, specialties(recs), tc.want)
		}
	}
}

// TestRecommendationsFallbackShadowing: when symptoms_current is present,
// conditions never feed the symptom text (only the explicit condition
// checks). A diabetic with unrelated current symptoms still gets the
// Endocrinology referral via the conditions trigger.
func TestRecommendationsFallbackShadowing(t *testing.T) {
	recs := BuildRecommendations(Normalize(RawRecord{
		"symptoms_current": "headache",
		"conditions":       "type 2 diabetes",
	}))
	rec := findRec(recs, "Endocrinology")
	if rec == nil {
		t.Fatalf("specialties = %v, want Endocrinology", specialties(recs))
	}
	if rec.Urgency != UrgencyMedium {
		t.Errorf("urgency = %q, want %q", rec.Urgency, UrgencyMedium)
	}
}

// TestRecommendationsCap: a record triggering every rule returns at most
// four entries, each with a unique specialty, in evaluation order.
func TestRecommendationsCap(t *testing.T) {
	recs := BuildRecommendations(Normalize(RawRecord{
		"symptoms_current": "chest pain, coughing fits, low blood sugar",
		"smoking_status":   "regular",
		"stress_level":     "very_high",
	}))

	if len(recs) > maxRecommendations {
		t.Fatalf("len = %d, want <= %d", len(recs), maxRecommendations)
	}
	want := []string{"Cardiology", "Pulmonology", "Endocrinology", "Behavioral Health"}
	got := specialties(recs)
	if len(got) != len(want) {
		t.Fatalf("specialties = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("specialties[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestRecommendationsEmptyRecord: nothing to match, nothing returned.
func TestRecommendationsEmptyRecord(t *testing.T) {
	if recs := BuildRecommendations(Normalize(nil)); len(recs) != 0 {
		t.Errorf("specialties = %v, want none", specialties(recs))
	}
}

// TestRecommendationsSmokerUrgency: a smoking-triggered pulmonology
// referral is medium even when cough symptoms also match.
func TestRecommendationsSmokerUrgency(t *testing.T) {
	recs := BuildRecommendations(Normalize(RawRecord{
		"symptoms_current": "dry cough",
		"smoking_status":   "regular",
	}))
	rec := findRec(recs, "Pulmonology")
	if rec == nil {
		t.Fatalf("specialties = %v, want Pulmonology", specialties(recs))
	}
	if rec.Urgency != UrgencyMedium {
		t.Errorf("urgency = %q, want %q", rec.Urgency, UrgencyMedium)
	}

	recs = BuildRecommendations(Normalize(RawRecord{"symptoms_current": "dry cough"}))
	if rec := findRec(recs, "Pulmonology"); rec == nil || rec.Urgency != UrgencyLow {
		t.Errorf("symptom-only pulmonology urgency should be low, got %+v", rec)
	}
}
