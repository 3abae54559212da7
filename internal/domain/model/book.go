package model

import "time"

// Book is a catalog entry keyed by ISBN rather than a generated id.
type Book struct {
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	AuthorID string `json:"author_id"`
	Year     int    `json:"year,omitempty"`
}

// DecodeBook builds a Book from a request payload.
func DecodeBook(data map[string]any) (Book, FieldErrors) {
	var b Book
	errs := make(FieldErrors)

	if isbn, ok := stringField(data, "isbn", errs); ok {
		b.ISBN = isbn
	}
	if b.ISBN == "" && errs["isbn"] == "" {
		errs["isbn"] = "is required"
	}
	b.Apply(data, errs)
	if b.Title == "" && errs["title"] == "" {
		errs["title"] = "is required"
	}
	if b.AuthorID == "" && errs["author_id"] == "" {
		errs["author_id"] = "is required"
	}
	return b, errs
}

// Apply merges payload fields into the book, for partial updates. The
// ISBN is the identity of a book and never changes through a payload.
func (b *Book) Apply(data map[string]any, errs FieldErrors) {
	if title, ok := stringField(data, "title", errs); ok {
		if title == "" {
			errs["title"] = "must not be blank"
		} else {
			b.Title = title
		}
	}
	if author, ok := stringField(data, "author_id", errs); ok {
		if author == "" {
			errs["author_id"] = "must not be blank"
		} else {
			b.AuthorID = author
		}
	}
	if year, ok := intField(data, "year", errs); ok {
		if year < 0 || year > time.Now().Year()+1 {
			errs["year"] = "is out of range"
		} else {
			b.Year = year
		}
	}
}
