package token

import "github.com/google/uuid"

// OwnerID is an opaque identity carried on synthetic tokens so that
// several packEntry/omitEntry instances cooperating in the same pipeline
// can recognize their own output and ignore everyone else's. It is never
// compared except by equality.
type OwnerID struct {
	id uuid.UUID
}

// NewOwnerID returns a fresh, process-wide unique owner identity.
func NewOwnerID() OwnerID {
	return OwnerID{id: uuid.New()}
}

func (o OwnerID) String() string {
	return o.id.String()
}

// IsZero reports whether o is the zero OwnerID (no owner attached).
func (o OwnerID) IsZero() bool {
	return o.id == uuid.Nil
}
