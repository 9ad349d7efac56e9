package insight

// Snapshot is the normalized, typed view of a patient's self-reported
// health record. Numeric fields are nil when absent; string fields use ""
// for absent. FullName is the only field guaranteed present (it defaults
// to the empty string). Snapshots are plain values and are never mutated
// after Normalize returns.
type Snapshot struct {
	FullName string   `json:"full_name"`
	Age      *float64 `json:"age,omitempty"`
	Sex      string   `json:"sex,omitempty"`

	HeightCm *float64 `json:"height,omitempty"`
	WeightKg *float64 `json:"weight,omitempty"`

	BloodType      string `json:"blood_type,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
	Conditions     string `json:"conditions,omitempty"`
	Medications    string `json:"medications,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	PastReports    string `json:"past_reports,omitempty"`
	Prescriptions  string `json:"prescriptions,omitempty"`

	SymptomsCurrent string `json:"symptoms_current,omitempty"`
	SymptomsPast    string `json:"symptoms_past,omitempty"`

	Location string `json:"location,omitempty"`

	SmokingStatus      string   `json:"smoking_status,omitempty"`
	AlcoholConsumption string   `json:"alcohol_consumption,omitempty"`
	ExerciseFrequency  string   `json:"exercise_frequency,omitempty"`
	DietType           string   `json:"diet_type,omitempty"`
	SleepHours         *float64 `json:"sleep_hours,omitempty"`
	StressLevel        string   `json:"stress_level,omitempty"`

	FamilyHistory string `json:"family_history,omitempty"`
	HealthGoals   string `json:"health_goals,omitempty"`

	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`

	BloodPressure string   `json:"blood_pressure,omitempty"`
	HeartRate     *float64 `json:"heart_rate,omitempty"`
	TemperatureC  *float64 `json:"temperature_c,omitempty"`
	SpO2          *float64 `json:"spo2,omitempty"`
}

// Normalize converts a raw onboarding record into a typed Snapshot.
// Invalid or missing values become absent fields rather than errors; a nil
// record yields an empty snapshot. Unknown keys are ignored.
func Normalize(raw RawRecord) Snapshot {
	s := Snapshot{
		FullName: coerceString(raw["full_name"]),
		Sex:      coerceString(raw["sex"]),

		BloodType:      coerceString(raw["blood_type"]),
		Allergies:      coerceString(raw["allergies"]),
		Conditions:     coerceString(raw["conditions"]),
		Medications:    coerceString(raw["medications"]),
		MedicalHistory: coerceString(raw["medical_history"]),
		PastReports:    coerceString(raw["past_reports"]),
		Prescriptions:  coerceString(raw["prescriptions"]),

		SymptomsCurrent: coerceString(raw["symptoms_current"]),
		SymptomsPast:    coerceString(raw["symptoms_past"]),

		Location: coerceString(raw["location"]),

		SmokingStatus:      coerceString(raw["smoking_status"]),
		AlcoholConsumption: coerceString(raw["alcohol_consumption"]),
		ExerciseFrequency:  coerceString(raw["exercise_frequency"]),
		DietType:           coerceString(raw["diet_type"]),
		StressLevel:        coerceString(raw["stress_level"]),

		FamilyHistory: coerceString(raw["family_history"]),
		HealthGoals:   coerceString(raw["health_goals"]),

		EmergencyContactName:  coerceString(raw["emergency_contact_name"]),
		EmergencyContactPhone: coerceString(raw["emergency_contact_phone"]),

		BloodPressure: coerceString(raw["blood_pressure"]),
	}

	s.Age = optNumber(raw["age"])
	s.HeightCm = optNumber(raw["height"])
	s.WeightKg = optNumber(raw["weight"])
	s.SleepHours = optNumber(raw["sleep_hours"])
	s.HeartRate = optNumber(raw["heart_rate"])
	s.TemperatureC = optNumber(raw["temperature_c"])
	s.SpO2 = optNumber(raw["spo2"])

	return s
}

func optNumber(v any) *float64 {
	if f, ok := coerceNumber(v); ok {
		return &f
	}
	return nil
}
