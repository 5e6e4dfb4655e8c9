package window

import (
	"fmt"

	"github.com/google/uuid"
)

// GroupID identifies a window group and the client that owns it.
type GroupID struct {
	ID       uuid.UUID
	ClientID string
}

// IsEmpty reports whether g is the empty sentinel.
func (g GroupID) IsEmpty() bool {
	return g.ID == uuid.Nil
}

func (g GroupID) String() string {
	if g.IsEmpty() {
		return "group(empty)"
	}

	return fmt.Sprintf("%s/%s", g.ClientID, g.ID)
}

// ID identifies a window, its group and the owning client.
type ID struct {
	ID       uuid.UUID
	GroupID  uuid.UUID
	ClientID string
}

// Group returns the id of the group owning the window.
func (id ID) Group() GroupID {
	return GroupID{ID: id.GroupID, ClientID: id.ClientID}
}

// IsEmpty reports whether id is the empty sentinel.
func (id ID) IsEmpty() bool {
	return id.ID == uuid.Nil
}

func (id ID) String() string {
	if id.IsEmpty() {
		return "window(empty)"
	}

	return fmt.Sprintf("%s/%s/%s", id.ClientID, id.GroupID, id.ID)
}
