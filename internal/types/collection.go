package types

import "github.com/moznion/go-optional"

// Collection is the ordered sequence of points delivered for one symbol on
// one date. A product-level symbol aggregates every form of the product, so
// a collection may hold several points for the same day.
type Collection []ProducePoint

// FilterByForm returns the points whose form matches exactly.
func (c Collection) FilterByForm(form Form) Collection {
	var filtered Collection

	for _, point := range c {
		if point.Form == form {
			filtered = append(filtered, point)
		}
	}

	return filtered
}

// FilterByFormContains returns the points whose form label contains the
// given substring. The match is case-sensitive.
func (c Collection) FilterByFormContains(substr string) Collection {
	var filtered Collection

	for _, point := range c {
		if point.Form.Contains(substr) {
			filtered = append(filtered, point)
		}
	}

	return filtered
}

// FindForm returns the first point with the given form, if any.
func (c Collection) FindForm(form Form) optional.Option[ProducePoint] {
	for _, point := range c {
		if point.Form == form {
			return optional.Some(point)
		}
	}

	return optional.None[ProducePoint]()
}
