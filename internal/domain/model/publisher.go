package model

// Publisher is a publishing house with a simple stock counter that the
// restock action increments.
type Publisher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	Stock int    `json:"stock"`
}

// DecodePublisher builds a Publisher from a request payload.
func DecodePublisher(data map[string]any) (Publisher, FieldErrors) {
	var p Publisher
	errs := make(FieldErrors)

	p.Apply(data, errs)
	if p.Name == "" && errs["name"] == "" {
		errs["name"] = "is required"
	}
	return p, errs
}

// Apply merges payload fields into the publisher, for partial updates.
// Stock is only adjusted through the restock action, never a payload.
func (p *Publisher) Apply(data map[string]any, errs FieldErrors) {
	if name, ok := stringField(data, "name", errs); ok {
		if name == "" {
			errs["name"] = "must not be blank"
		} else {
			p.Name = name
		}
	}
	if city, ok := stringField(data, "city", errs); ok {
		p.City = city
	}
}

// Restock adds n copies to the stock counter. Negative amounts are
// ignored so a bad payload cannot drain inventory.
func (p *Publisher) Restock(n int) {
	if n > 0 {
		p.Stock += n
	}
}
