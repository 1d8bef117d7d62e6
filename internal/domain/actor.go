package domain

// Actor identifies who performed a mutating operation. The core treats the
// identifier as opaque and stamps it on history entries; authorization is
// handled at the HTTP boundary.
type Actor struct {
	ID         string
	LocationID *string
}
