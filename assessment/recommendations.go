package assessment

import "slices"

// AdviceSection is one titled list of recommendation lines
type AdviceSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Recommendation is the fixed text bundle attached to a risk level
type Recommendation struct {
	Headline string          `json:"headline"`
	Summary  string          `json:"summary"`
	Sections []AdviceSection `json:"sections"`
	// Monitoring is set for the high risk bundle only
	Monitoring *MonitoringProtocol `json:"monitoring,omitempty"`
	Resources  []string            `json:"resources"`
}

// MonitoringProtocol describes follow-up for high risk patients
type MonitoringProtocol struct {
	Cadence      string   `json:"cadence"`
	KeyMetrics   []string `json:"keyMetrics"`
	WarningSigns []string `json:"warningSigns"`
}

var resources = []string{
	"American Heart Association: Heart-healthy living guidelines",
	"CDC Heart Disease Prevention: www.cdc.gov/heartdisease",
	"National Heart, Lung, and Blood Institute: Educational materials",
	"Local Cardiac Rehabilitation Programs: Contact your healthcare provider",
}

var highRiskBundle = Recommendation{
	Headline: "HIGH CARDIOVASCULAR RISK DETECTED",
	Summary: "The risk assessment model has identified a high probability of cardiovascular disease " +
		"based on the provided clinical and lifestyle data. Immediate medical consultation is strongly recommended.",
	Sections: []AdviceSection{
		{
			Title: "Immediate Steps",
			Items: []string{
				"Schedule comprehensive cardiac evaluation",
				"Complete full lipid panel and cardiac biomarkers",
				"Review and optimize medication regimen",
				"Baseline ECG and stress testing",
				"Consider advanced cardiac imaging if indicated",
			},
		},
		{
			Title: "Lifestyle Interventions",
			Items: []string{
				"Adopt DASH or Mediterranean diet",
				"Immediate smoking cessation support",
				"Supervised cardiac rehabilitation program",
				"Stress management and mental health support",
				"Sleep hygiene optimization",
			},
		},
	},
	Monitoring: &MonitoringProtocol{
		Cadence:      "Every 3-6 months or as directed by cardiologist",
		KeyMetrics:   []string{"Blood pressure", "cholesterol", "weight", "physical activity"},
		WarningSigns: []string{"Chest pain", "shortness of breath", "palpitations", "unusual fatigue"},
	},
	Resources: resources,
}

var lowRiskBundle = Recommendation{
	Headline: "LOW CARDIOVASCULAR RISK",
	Summary: "The assessment indicates a low probability of cardiovascular disease based on current health metrics. " +
		"Continue maintaining healthy lifestyle practices and regular health monitoring.",
	Sections: []AdviceSection{
		{
			Title: "Continue Current Practices",
			Items: []string{
				"Maintain balanced, nutrient-rich diet",
				"Regular cardiovascular exercise routine",
				"Consistent sleep schedule (7-9 hours)",
				"Stress management techniques",
				"Avoid tobacco and limit alcohol",
			},
		},
		{
			Title: "Routine Monitoring",
			Items: []string{
				"Annual health check-ups",
				"Blood pressure monitoring",
				"Lipid panel every 2-5 years",
				"Maintain healthy weight",
				"Stay physically active",
			},
		},
		{
			Title: "Optimization Opportunities",
			Items: []string{
				"Increasing physical activity if below recommended levels",
				"Further dietary improvements (more vegetables, whole grains)",
				"Enhanced stress reduction techniques (meditation, yoga)",
				"Building strong social connections for mental health",
			},
		},
	},
	Resources: resources,
}

// RecommendationFor returns a private copy of the bundle for a level.
// Callers may modify the result without affecting later outcomes.
func RecommendationFor(level RiskLevel) Recommendation {
	if level == HighRisk {
		return highRiskBundle.clone()
	}
	return lowRiskBundle.clone()
}

func (r Recommendation) clone() Recommendation {
	out := r
	out.Sections = make([]AdviceSection, len(r.Sections))
	for i, s := range r.Sections {
		out.Sections[i] = AdviceSection{Title: s.Title, Items: slices.Clone(s.Items)}
	}
	if r.Monitoring != nil {
		out.Monitoring = &MonitoringProtocol{
			Cadence:      r.Monitoring.Cadence,
			KeyMetrics:   slices.Clone(r.Monitoring.KeyMetrics),
			WarningSigns: slices.Clone(r.Monitoring.WarningSigns),
		}
	}
	out.Resources = slices.Clone(r.Resources)
	return out
}
