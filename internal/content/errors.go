package content

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNode is returned when a node lacks a required field.
	ErrMalformedNode = errors.New("malformed content node")
	// ErrTooDeep is returned when the tree nests deeper than MaxDepth.
	ErrTooDeep = errors.New("content tree exceeds maximum depth")
	// ErrDuplicateURL is returned when two pages share a URL.
	ErrDuplicateURL = errors.New("duplicate page url")
)

// MaxDepth bounds recursion over the content tree.
const MaxDepth = 64

// MalformedNodeError describes which node failed validation and why.
type MalformedNodeError struct {
	Trail []string // names from the root down to the parent of the bad node
	Field string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("%s: missing %q under %v", ErrMalformedNode, e.Field, e.Trail)
}

func (e *MalformedNodeError) Unwrap() error { return ErrMalformedNode }
