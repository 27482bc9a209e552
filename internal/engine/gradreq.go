package engine

import "github.com/pkg/errors"

// GradReq directs how a computed gradient is merged into its destination
// array. It is a closed enumeration used consistently on both sides of the
// custom-node callback boundary.
type GradReq int

// Gradient request policies.
const (
	// GradNull requests no gradient: the destination is left untouched.
	GradNull GradReq = iota
	// GradWrite overwrites the destination with the computed gradient.
	GradWrite
	// GradAdd accumulates the computed gradient into the destination.
	GradAdd
)

// String returns the canonical policy name.
func (r GradReq) String() string {
	switch r {
	case GradNull:
		return "null"
	case GradWrite:
		return "write"
	case GradAdd:
		return "add"
	default:
		return "unknown"
	}
}

// ParseGradReq converts a policy name into a GradReq.
// Accepted names are "null", "write" and "add"; anything else is an error.
func ParseGradReq(name string) (GradReq, error) {
	switch name {
	case "null":
		return GradNull, nil
	case "write":
		return GradWrite, nil
	case "add":
		return GradAdd, nil
	default:
		return GradNull, errors.Errorf("unknown gradient request policy %q (want null, write or add)", name)
	}
}
