package model

// Sharing classifies how many references a container may have.
type Sharing uint8

const (
	// Temporary containers have a single owner and may be mutated in place.
	Temporary Sharing = iota
	// SharedTransient containers are referenced from a second place.
	SharedTransient
	// SharedPermanent containers are immutable for the rest of their lifetime.
	SharedPermanent
)

func (s Sharing) String() string {
	switch s {
	case Temporary:
		return "temporary"
	case SharedTransient:
		return "shared-transient"
	case SharedPermanent:
		return "shared-permanent"
	default:
		return "invalid"
	}
}

// Promote returns the later of s and to. Sharing never downgrades.
func (s Sharing) Promote(to Sharing) Sharing {
	if to > s {
		return to
	}
	return s
}
