package pointers

import "time"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func String(v string) *string { return &v }
func Bool(v bool) *bool       { return &v }
func Int(v int) *int          { return &v }

// TimeUTC returns a pointer to v in UTC, or nil for the zero time.
func TimeUTC(v time.Time) *time.Time {
	if v.IsZero() {
		return nil
	}
	u := v.UTC()
	return &u
}

// Deref returns the pointed-to value or the zero value.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
