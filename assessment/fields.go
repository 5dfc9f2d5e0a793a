package assessment

import "fmt"

// FieldKind describes how a field value is entered and validated
type FieldKind int

const (
	Integer FieldKind = iota
	Float
	Enum
)

// String returns the kind name used in the JSON catalog
func (k FieldKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its string form
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Section groups fields on the form
type Section string

const (
	SectionDemographics Section = "Demographics & Vitals"
	SectionHistory      Section = "Medical History"
	SectionLifestyle    Section = "Lifestyle Factors"
	SectionLaboratory   Section = "Laboratory Values"
)

// Sections lists the form sections in display order
var Sections = []Section{SectionDemographics, SectionHistory, SectionLifestyle, SectionLaboratory}

// Option is one choice of an enumerated field. Value is the code sent to the model.
type Option struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Field declares one form input and its valid range
type Field struct {
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Help       string    `json:"help,omitempty"`
	Section    Section   `json:"section"`
	Kind       FieldKind `json:"kind"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Step       float64   `json:"step,omitempty"`
	Default    float64   `json:"default"`
	Options    []Option  `json:"options,omitempty"`
	ModelInput bool      `json:"modelInput"`
}

// OptionLabel returns the label for an enum code, or the formatted value
func (f Field) OptionLabel(v float64) string {
	for _, o := range f.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return fmt.Sprintf("%g", v)
}

func yesNo() []Option {
	return []Option{{0, "No"}, {1, "Yes"}}
}

func options(labels ...string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Value: float64(i), Label: l}
	}
	return opts
}

// Countries is the fixed list behind the country field; the code is the index
var Countries = []string{
	"Argentina", "Australia", "Brazil", "Canada", "China", "Colombia",
	"France", "Germany", "India", "Italy", "Japan", "New Zealand",
	"Nigeria", "South Africa", "South Korea", "Spain", "Thailand",
	"United States", "Vietnam",
}

// Fields is the authoritative catalog shared by the form and feature assembly.
// Model inputs appear here in the same order the classifier was trained on.
var Fields = []Field{
	// model inputs, training order
	{Name: "age", Label: "Age (years)", Help: "Patient's current age in years", Section: SectionDemographics, Kind: Integer, Min: 18, Max: 90, Step: 1, Default: 45, ModelInput: true},
	{Name: "sex", Label: "Biological Sex", Section: SectionDemographics, Kind: Enum, Options: []Option{{0, "Female"}, {1, "Male"}}, Min: 0, Max: 1, Default: 1, ModelInput: true},
	{Name: "cholesterol", Label: "Total Cholesterol (mg/dL)", Help: "Total serum cholesterol", Section: SectionLaboratory, Kind: Integer, Min: 120, Max: 400, Step: 1, Default: 200, ModelInput: true},
	{Name: "heart_rate", Label: "Resting Heart Rate (bpm)", Help: "Beats per minute at rest", Section: SectionDemographics, Kind: Integer, Min: 40, Max: 110, Step: 1, Default: 70, ModelInput: true},
	{Name: "diabetes", Label: "Diabetes Mellitus", Help: "History of diabetes diagnosis", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1, ModelInput: true},
	{Name: "family_history", Label: "Family History of Heart Disease", Help: "First-degree relatives with cardiovascular disease", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1, ModelInput: true},
	{Name: "smoking", Label: "Smoking Status", Section: SectionLifestyle, Kind: Enum, Options: []Option{{0, "Non-Smoker"}, {1, "Current/Former Smoker"}}, Min: 0, Max: 1, ModelInput: true},
	{Name: "obesity", Label: "Clinical Obesity", Help: "BMI of 30 kg/m² or more, or clinical diagnosis", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1, ModelInput: true},
	{Name: "alcohol", Label: "Alcohol Consumption", Help: "Regular alcohol consumption", Section: SectionLifestyle, Kind: Enum, Options: []Option{{0, "No/Minimal"}, {1, "Regular Use"}}, Min: 0, Max: 1, ModelInput: true},
	{Name: "exercise_hours", Label: "Exercise Hours Per Week", Help: "Moderate to vigorous physical activity", Section: SectionLifestyle, Kind: Float, Min: 0, Max: 20, Step: 0.5, Default: 3, ModelInput: true},

	// collected, not consumed by the current model
	{Name: "bmi", Label: "Body Mass Index (kg/m²)", Help: "Weight in kg divided by height in meters squared", Section: SectionDemographics, Kind: Float, Min: 18, Max: 39.99, Step: 0.01, Default: 25},
	{Name: "country", Label: "Country of Residence", Section: SectionDemographics, Kind: Enum, Options: options(Countries...), Min: 0, Max: float64(len(Countries) - 1)},
	{Name: "systolic_bp", Label: "Systolic Blood Pressure (mmHg)", Help: "Upper blood pressure reading", Section: SectionDemographics, Kind: Integer, Min: 90, Max: 180, Step: 1, Default: 120},
	{Name: "diastolic_bp", Label: "Diastolic Blood Pressure (mmHg)", Help: "Lower blood pressure reading", Section: SectionDemographics, Kind: Integer, Min: 60, Max: 110, Step: 1, Default: 80},
	{Name: "income", Label: "Annual Income (USD)", Help: "Socioeconomic indicator", Section: SectionDemographics, Kind: Integer, Min: 20062, Max: 299954, Step: 1, Default: 60000},
	{Name: "previous_heart_problems", Label: "Previous Cardiac Events", Help: "History of heart attack, angina, or cardiac procedures", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1},
	{Name: "medication_use", Label: "Current Cardiac Medications", Help: "Taking medications for heart/blood pressure", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1},
	{Name: "heart_attack_risk", Label: "High Heart Attack Risk (Clinical Assessment)", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1},
	{Name: "substance_use", Label: "Substance Use History", Help: "History of drug use affecting cardiovascular health", Section: SectionHistory, Kind: Enum, Options: yesNo(), Min: 0, Max: 1},
	{Name: "diet", Label: "Diet Quality", Help: "Overall dietary pattern assessment", Section: SectionLifestyle, Kind: Enum, Options: options("Average", "Healthy", "Unhealthy"), Min: 0, Max: 2},
	{Name: "activity_days", Label: "Physical Activity Days Per Week", Help: "Days with at least 30 minutes of activity", Section: SectionLifestyle, Kind: Integer, Min: 0, Max: 7, Step: 1, Default: 3},
	{Name: "sedentary_hours", Label: "Sedentary Hours Per Day", Help: "Hours spent sitting/inactive", Section: SectionLifestyle, Kind: Float, Min: 0, Max: 12, Step: 0.5, Default: 6},
	{Name: "sleep_hours", Label: "Average Sleep Hours Per Day", Help: "Average nightly sleep duration", Section: SectionLifestyle, Kind: Integer, Min: 4, Max: 10, Step: 1, Default: 7},
	{Name: "stress_level", Label: "Stress Level (1-10 scale)", Help: "Self-reported stress assessment", Section: SectionLifestyle, Kind: Integer, Min: 1, Max: 10, Step: 1, Default: 5},
	{Name: "triglycerides", Label: "Triglycerides (mg/dL)", Help: "Serum triglyceride level", Section: SectionLaboratory, Kind: Integer, Min: 30, Max: 800, Step: 1, Default: 150},
	{Name: "bp_product", Label: "Blood Pressure Product (mmHg)", Help: "Systolic × Diastolic (calculated metric)", Section: SectionLaboratory, Kind: Integer, Min: 5400, Max: 19800, Step: 1, Default: 9600},
	{Name: "bmi_stress_index", Label: "BMI-Stress Index", Help: "Composite stress-BMI metric", Section: SectionLaboratory, Kind: Float, Min: 18, Max: 399.85, Step: 0.01, Default: 125},
	{Name: "activity_ratio", Label: "Activity-to-Sedentary Ratio", Help: "Physical activity divided by sedentary time", Section: SectionLaboratory, Kind: Float, Min: 0, Max: 20, Step: 0.1, Default: 0.5},
	{Name: "sleep_stress_score", Label: "Sleep-Stress Interaction Score", Help: "Sleep hours × stress level", Section: SectionLaboratory, Kind: Integer, Min: 4, Max: 100, Step: 1, Default: 35},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f.Name] = i
	}
	return idx
}()

// ModelFeatures are the catalog entries forwarded to the classifier, in training order
var ModelFeatures = func() []Field {
	features := make([]Field, 0, FeatureCount)
	for _, f := range Fields {
		if f.ModelInput {
			features = append(features, f)
		}
	}
	if len(features) != FeatureCount {
		panic(fmt.Sprintf("assessment: catalog declares %d model inputs, want %d", len(features), FeatureCount))
	}
	return features
}()

// LookupField returns the catalog entry for name
func LookupField(name string) (Field, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// ModelFeatureNames returns the feature names in training order
func ModelFeatureNames() []string {
	names := make([]string, len(ModelFeatures))
	for i, f := range ModelFeatures {
		names[i] = f.Name
	}
	return names
}

// FieldsInSection returns the catalog entries of one section in catalog order
func FieldsInSection(s Section) []Field {
	var out []Field
	for _, f := range Fields {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}

// DefaultRecord returns a record filled with every field's default value
func DefaultRecord() PatientRecord {
	rec := make(PatientRecord, len(Fields))
	for _, f := range Fields {
		rec[f.Name] = f.Default
	}
	return rec
}
