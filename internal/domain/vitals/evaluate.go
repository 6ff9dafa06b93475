package vitals

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain"
)

type AlertStatus string

const (
	StatusHigh AlertStatus = "high"
	StatusLow  AlertStatus = "low"
)

// AlertEntry is one flagged out-of-range field on a recording.
type AlertEntry struct {
	Type    string      `json:"type"`
	Value   string      `json:"value"`
	Status  AlertStatus `json:"status"`
	Message string      `json:"message"`
}

// AlertRecord groups all alert entries for one vital recording together
// with patient identity and an aggregate priority.
type AlertRecord struct {
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name"`
	PatientNumber string          `json:"patient_number"`
	VitalID       uuid.UUID       `json:"vital_id"`
	RecordedAt    time.Time       `json:"recorded_at"`
	Alerts        []AlertEntry    `json:"alerts"`
	Priority      domain.Priority `json:"priority"`
}

// Evaluate checks a recording's present fields against the range table and
// returns one entry per violation. Missing fields are skipped, never flagged.
//
// Two behaviors are intentional and must not be "fixed":
//   - Blood pressure is governed by the systolic reading alone; diastolic is
//     reported alongside it but a diastolic-only excursion raises nothing.
//   - Oxygen saturation is checked only against its floor, since readings
//     cannot meaningfully exceed 100%.
//
// Respiratory rate and BMI carry ranges in the table for reference but are
// not evaluated.
func Evaluate(v *Vital, ranges RangeTable) []AlertEntry {
	var entries []AlertEntry

	if v.BloodPressureSystolic != nil {
		r := ranges.BloodPressureSystolic
		if sys := *v.BloodPressureSystolic; sys < r.Min || sys > r.Max {
			status := StatusLow
			word := "low"
			if sys > r.Max {
				status = StatusHigh
				word = "elevated"
			}
			reading := fmtValue(sys) + "/" + fmtOptional(v.BloodPressureDiastolic)
			entries = append(entries, AlertEntry{
				Type:    "blood_pressure",
				Value:   reading,
				Status:  status,
				Message: fmt.Sprintf("Blood pressure %s (%s)", word, reading),
			})
		}
	}

	if v.HeartRate != nil {
		r := ranges.HeartRate
		if hr := *v.HeartRate; hr < r.Min || hr > r.Max {
			status := StatusLow
			word := "low"
			if hr > r.Max {
				status = StatusHigh
				word = "elevated"
			}
			entries = append(entries, AlertEntry{
				Type:    "heart_rate",
				Value:   fmtValue(hr),
				Status:  status,
				Message: fmt.Sprintf("Heart rate %s (%s bpm)", word, fmtValue(hr)),
			})
		}
	}

	if v.Temperature != nil {
		r := ranges.Temperature
		if t := *v.Temperature; t < r.Min || t > r.Max {
			status := StatusLow
			word := "low"
			if t > r.Max {
				status = StatusHigh
				word = "elevated"
			}
			entries = append(entries, AlertEntry{
				Type:    "temperature",
				Value:   fmtValue(t),
				Status:  status,
				Message: fmt.Sprintf("Temperature %s (%s°F)", word, fmtValue(t)),
			})
		}
	}

	if v.OxygenSaturation != nil {
		if sat := *v.OxygenSaturation; sat < ranges.OxygenSaturation.Min {
			entries = append(entries, AlertEntry{
				Type:    "oxygen_saturation",
				Value:   fmtValue(sat),
				Status:  StatusLow,
				Message: fmt.Sprintf("Low oxygen saturation (%s%%)", fmtValue(sat)),
			})
		}
	}

	if v.GlucoseLevel != nil {
		r := ranges.GlucoseLevel
		if g := *v.GlucoseLevel; g < r.Min || g > r.Max {
			status := StatusLow
			word := "low"
			if g > r.Max {
				status = StatusHigh
				word = "elevated"
			}
			entries = append(entries, AlertEntry{
				Type:    "glucose",
				Value:   fmtValue(g),
				Status:  status,
				Message: fmt.Sprintf("Blood glucose %s (%s mg/dL)", word, fmtValue(g)),
			})
		}
	}

	return entries
}

// BuildRecord assembles the per-recording alert record. Priority is High
// when any entry's status is "high"; low-only excursions stay Medium.
func BuildRecord(v *Vital, entries []AlertEntry) *AlertRecord {
	rec := &AlertRecord{
		PatientID:  v.PatientID,
		VitalID:    v.ID,
		RecordedAt: v.RecordedAt,
		Alerts:     entries,
		Priority:   domain.PriorityMedium,
	}
	if v.Patient != nil {
		rec.PatientName = v.Patient.FullName()
		rec.PatientNumber = v.Patient.PatientNumber
	}
	for _, e := range entries {
		if e.Status == StatusHigh {
			rec.Priority = domain.PriorityHigh
			break
		}
	}
	return rec
}

func fmtValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fmtOptional(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmtValue(*f)
}
