package entity

// Envelope is the canonical paginated wrapper used for every list-shaped
// field coming back from the purchase API. Both the legacy flat arrays and
// the current paginated objects are normalized into this shape.
type Envelope[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// EmptyEnvelope returns the "no data" envelope. Malformed or missing input
// degrades to this instead of failing the whole snapshot.
func EmptyEnvelope[T any]() Envelope[T] {
	return Envelope[T]{
		Items:      []T{},
		Page:       1,
		Limit:      20,
		Total:      0,
		TotalPages: 1,
	}
}

// PageInfo returns the pagination fields without the items.
func (e Envelope[T]) PageInfo() PageInfo {
	return PageInfo{
		Page:       e.Page,
		Limit:      e.Limit,
		Total:      e.Total,
		TotalPages: e.TotalPages,
	}
}

// PageInfo carries pagination metadata detached from the item slice.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
