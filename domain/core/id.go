package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 generation fails
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

// Domain-specific ID types
type (
	FrameID ID
	BatchID ID
)

// String conversions for domain IDs
func (id FrameID) String() string { return ID(id).String() }
func (id BatchID) String() string { return ID(id).String() }

// IsEmpty reports whether no identifier was assigned
func (id FrameID) IsEmpty() bool { return ID(id).IsEmpty() }
func (id BatchID) IsEmpty() bool { return ID(id).IsEmpty() }

// NewFrameID creates a fresh frame identifier
func NewFrameID() FrameID { return FrameID(NewID()) }

// NewBatchID creates a fresh batch identifier
func NewBatchID() BatchID { return BatchID(NewID()) }
