package main

import (
	"fmt"

	"github.com/liamcoop/heartrisk/assessment"
)

// pageData is the template context for both form variants
type pageData struct {
	Variant      variant
	Sections     []sectionView
	Available    bool
	LoadError    string
	ModelName    string
	FieldCount   int // catalog size
	FeatureCount int // catalog subset the classifier reads
	Result       *resultView
	Error        string
}

type sectionView struct {
	Name   assessment.Section
	Fields []fieldView
}

// fieldView is a catalog field with the value currently shown in the form
type fieldView struct {
	assessment.Field
	Value   float64
	Invalid bool
}

func (f fieldView) IsEnum() bool {
	return f.Kind == assessment.Enum
}

// Selected reports whether option value o is the current value
func (f fieldView) Selected(o float64) bool {
	return f.Value == o
}

type resultView struct {
	*assessment.Outcome
	ShowProbabilities bool
	Low               string
	High              string
	Confidence        string
	HighPercent       float64 // drives the risk distribution bar
}

// newPageData builds the form with record values, falling back to catalog defaults
func (s *Server) newPageData(v variant, record assessment.PatientRecord) *pageData {
	data := &pageData{
		Variant:      v,
		Available:    s.pipeline.Available(),
		ModelName:    s.modelName(),
		FieldCount:   len(assessment.Fields),
		FeatureCount: assessment.FeatureCount,
	}
	if s.loadErr != nil {
		data.LoadError = s.loadErr.Error()
	}

	for _, name := range assessment.Sections {
		section := sectionView{Name: name}
		for _, f := range assessment.FieldsInSection(name) {
			value, ok := record[f.Name]
			if !ok {
				value = f.Default
			}
			section.Fields = append(section.Fields, fieldView{Field: f, Value: value})
		}
		data.Sections = append(data.Sections, section)
	}
	return data
}

func (d *pageData) markInvalid(field string) {
	for i := range d.Sections {
		for j := range d.Sections[i].Fields {
			if d.Sections[i].Fields[j].Name == field {
				d.Sections[i].Fields[j].Invalid = true
				return
			}
		}
	}
}

func newResultView(o *assessment.Outcome, v variant) *resultView {
	rv := &resultView{Outcome: o}
	if v.ShowProbabilities && o.Probabilities != nil {
		rv.ShowProbabilities = true
		rv.Low = percent(o.Probabilities.Low)
		rv.High = percent(o.Probabilities.High)
		rv.Confidence = percent(*o.Confidence)
		rv.HighPercent = o.Probabilities.High
	}
	return rv
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
