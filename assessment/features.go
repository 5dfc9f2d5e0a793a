package assessment

import (
	"bytes"
	"encoding/json"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// AssembleFeatures builds the classifier input from a validated record.
// The order follows ModelFeatures and must match the classifier's training order.
func AssembleFeatures(record PatientRecord) FeatureVector {
	var vec FeatureVector
	for i, f := range ModelFeatures {
		vec[i] = record[f.Name]
	}
	return vec
}

// Map returns the vector keyed by feature name
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, FeatureCount)
	for i, f := range ModelFeatures {
		m[f.Name] = v[i]
	}
	return m
}

// ParseForm converts submitted form values into a record.
// Fields left blank are omitted; values that are not numbers are rejected.
// Form keys outside the catalog are ignored.
func ParseForm(values url.Values) (PatientRecord, error) {
	record := make(PatientRecord, len(Fields))
	for _, f := range Fields {
		raw := strings.TrimSpace(values.Get(f.Name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return record, invalid(f.Name, "%q is not a number", raw)
		}
		record[f.Name] = v
	}
	return record, nil
}

// DecodeFields converts a JSON object of raw field values into a record.
// Keys are checked in sorted order; a value that is not a JSON number is
// reported against its key. Unknown keys are kept for Validate to reject.
func DecodeFields(raw map[string]json.RawMessage) (PatientRecord, error) {
	record := make(PatientRecord, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		value := bytes.TrimSpace(raw[name])
		if len(value) == 0 || value[0] == '"' || bytes.Equal(value, []byte("null")) {
			return record, invalid(name, "%s is not a number", value)
		}
		var v float64
		if err := json.Unmarshal(value, &v); err != nil {
			return record, invalid(name, "%s is not a number", value)
		}
		record[name] = v
	}
	return record, nil
}
