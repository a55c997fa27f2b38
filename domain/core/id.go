package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// TableID identifies one loaded or generated Table. A new upload or demo
// regeneration always gets a new TableID.
type TableID ID

func (id TableID) String() string { return ID(id).String() }

// IsEmpty checks if the table ID is empty
func (id TableID) IsEmpty() bool { return id == "" }

// NewTableID returns a fresh table identity
func NewTableID() TableID {
	return TableID(NewID())
}

// ParseTableID parses a string into TableID
func ParseTableID(s string) (TableID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("table ID cannot be empty")
	}
	return TableID(s), nil
}
