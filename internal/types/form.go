package types

import "strings"

// Form is the preparation/state label of a produce measurement.
type Form string

const (
	FormFresh  Form = "Fresh"
	FormFrozen Form = "Frozen"
	FormCanned Form = "Canned"
	FormDried  Form = "Dried"
	FormJuice  Form = "Juice"
)

// Contains reports whether the form label contains the given substring.
// The match is case-sensitive, so "Apple Juice" and "Juice Concentrate"
// both match "Juice" while "juice drink" does not.
func (f Form) Contains(substr string) bool {
	return strings.Contains(string(f), substr)
}
