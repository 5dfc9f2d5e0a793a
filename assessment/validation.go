package assessment

import (
	"math"
	"sort"
)

// Validate checks a record against the catalog.
// Model inputs are required; supplementary fields are checked when present.
// Returns an *InvalidInputError naming the first offending field.
func Validate(record PatientRecord) error {
	if record == nil {
		return invalid("record", "no fields submitted")
	}

	// Unknown names first, in a stable order so the same record reports the same field
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := LookupField(name); !ok {
			return invalid(name, "unknown field")
		}
	}

	for _, f := range Fields {
		v, present := record[f.Name]
		if !present {
			if f.ModelInput {
				return invalid(f.Name, "is required")
			}
			continue
		}
		if err := validateValue(f, v); err != nil {
			return err
		}
	}

	return nil
}

// validateValue checks a single value against its field declaration
func validateValue(f Field, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(f.Name, "must be a finite number")
	}

	switch f.Kind {
	case Enum:
		for _, o := range f.Options {
			if o.Value == v {
				return nil
			}
		}
		return invalid(f.Name, "%g is not one of the allowed options", v)
	case Integer:
		if v != math.Trunc(v) {
			return invalid(f.Name, "%g must be a whole number", v)
		}
	}

	if v < f.Min || v > f.Max {
		return invalid(f.Name, "%g is outside the range %g to %g", v, f.Min, f.Max)
	}

	return nil
}
