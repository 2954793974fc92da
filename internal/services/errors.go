package services

import (
	"fmt"
	"strings"
)

// DescriptorValidationError rejects a metadata batch whose descriptors are
// missing required addressing fields. The whole batch fails before any
// query runs; Indices identifies the offending descriptors.
type DescriptorValidationError struct {
	Indices []int
}

func (e *DescriptorValidationError) Error() string {
	parts := make([]string, len(e.Indices))
	for i, idx := range e.Indices {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return "invalid experiment descriptors at indices " + strings.Join(parts, ", ")
}
