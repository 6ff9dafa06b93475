package vitals

import (
	"context"
	"time"
)

type Repository interface {
	// RecordedSince returns recordings with recorded_at >= since, newest
	// first, with patient identity joined.
	RecordedSince(ctx context.Context, since time.Time) ([]*Vital, error)
}
