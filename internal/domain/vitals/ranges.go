package vitals

// Range is an inclusive normal band; values outside it are flagged.
type Range struct {
	Min float64
	Max float64
}

// RangeTable holds the normal bands the evaluator checks recordings against.
// It is immutable once built and injected into the evaluator, so deployments
// can tune thresholds and tests can run with synthetic bands.
type RangeTable struct {
	BloodPressureSystolic  Range
	BloodPressureDiastolic Range
	HeartRate              Range
	Temperature            Range
	RespiratoryRate        Range
	OxygenSaturation       Range
	GlucoseLevel           Range
	BMI                    Range
}

// DefaultRanges returns the standard adult normal bands.
func DefaultRanges() RangeTable {
	return RangeTable{
		BloodPressureSystolic:  Range{Min: 90, Max: 140},
		BloodPressureDiastolic: Range{Min: 60, Max: 90},
		HeartRate:              Range{Min: 60, Max: 100},
		Temperature:            Range{Min: 97.0, Max: 99.5},
		RespiratoryRate:        Range{Min: 12, Max: 20},
		OxygenSaturation:       Range{Min: 95, Max: 100},
		GlucoseLevel:           Range{Min: 70, Max: 140},
		BMI:                    Range{Min: 18.5, Max: 24.9},
	}
}
