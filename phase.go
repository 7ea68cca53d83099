package trafficlight

// Phase is the signal shown by a [Light].
type Phase int

const (
	Red   Phase = iota // stop; the initial phase of every light
	Green              // proceed
)

// Toggle returns the phase that follows p.
func (p Phase) Toggle() Phase {
	if p == Green {
		return Red
	}
	return Green
}

func (p Phase) String() string {
	switch p {
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return "invalid"
	}
}
