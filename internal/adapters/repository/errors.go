package repository

import (
	"fmt"

	"github.com/okian/restio/pkg/endpoint"
)

// ErrNotFound reports a missing record. It wraps the endpoint sentinel so
// the generated handlers translate it to a 404.
var ErrNotFound = fmt.Errorf("record not found: %w", endpoint.ErrNotFound)
