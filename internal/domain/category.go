package domain

// Category is a complaint classification. Names are human-authored and may carry
// inconsistent casing or whitespace.
type Category struct {
	ID   int64
	Name string
}
