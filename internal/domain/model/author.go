// Package model contains domain models passed between layers.
package model

import "time"

// Author is a book author tracked by the catalog.
type Author struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Born *time.Time `json:"born,omitempty"`
}

// DecodeAuthor builds an Author from a request payload. The returned
// FieldErrors is non-empty when required fields are missing or malformed.
func DecodeAuthor(data map[string]any) (Author, FieldErrors) {
	var a Author
	errs := make(FieldErrors)

	a.Apply(data, errs)
	if a.Name == "" && errs["name"] == "" {
		errs["name"] = "is required"
	}
	return a, errs
}

// Apply merges payload fields into the author, for partial updates.
// Unknown keys are ignored; the ID never changes through a payload.
func (a *Author) Apply(data map[string]any, errs FieldErrors) {
	if name, ok := stringField(data, "name", errs); ok {
		if name == "" {
			errs["name"] = "must not be blank"
		} else {
			a.Name = name
		}
	}
	if born, ok := dateField(data, "born", errs); ok {
		a.Born = &born
	}
}
