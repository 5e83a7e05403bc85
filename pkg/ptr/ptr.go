// Package ptr provides nil-safe helpers for the optional scalar fields in
// the data model (published date, DOI, date_from filters, ...).
package ptr

// Of returns a pointer to v.
func Of[V any](v V) *V {
	return &v
}

// Deref safely dereferences p, returning the zero value of T if p is nil.
func Deref[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return
}

// DerefOr dereferences p, or returns fallback if p is nil.
func DerefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// Coalesce returns p if non-nil, otherwise other. Used when merging two
// records and keeping whichever one actually set an optional field.
func Coalesce[T any](p, other *T) *T {
	if p != nil {
		return p
	}
	return other
}
