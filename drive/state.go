package drive

// State is the current driving state. Exactly one is active at a time;
// transitions happen only inside Machine.Update.
type State uint8

const (
	// Centering is the boot state: the machine is measuring the
	// transmitter's neutral trim before any command is trusted.
	Centering State = iota
	// Idle means the vehicle has not moved since centering (or since
	// the last braking episode ended).
	Idle
	// Reverse is backward drive.
	Reverse
	// Forward is forward drive.
	Forward
	// Stopped means forward drive ended with a released trigger; the
	// vehicle may coast but may not reverse, only brake or re-accelerate.
	Stopped
	// Braking means the trigger was pulled back while moving forward.
	Braking
)

func (s State) String() string {
	switch s {
	case Centering:
		return "CTR"
	case Idle:
		return "INI"
	case Reverse:
		return "REV"
	case Forward:
		return "FWD"
	case Stopped:
		return "STP"
	case Braking:
		return "BRK"
	}
	return "UNKNOWN"
}
