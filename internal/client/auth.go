package client

// AuthStage is the login progress of one connection.
type AuthStage int

const (
	StageUnauthenticated AuthStage = iota
	StageCodeRequested
	StageCodeAccepted
	StagePasswordRequired
	StagePasswordAccepted
	StageAuthenticated
	StageFailed
)

var stageNames = map[AuthStage]string{
	StageUnauthenticated:  "unauthenticated",
	StageCodeRequested:    "code-requested",
	StageCodeAccepted:     "code-accepted",
	StagePasswordRequired: "password-required",
	StagePasswordAccepted: "password-accepted",
	StageAuthenticated:    "authenticated",
	StageFailed:           "failed",
}

func (s AuthStage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s AuthStage) Terminal() bool {
	return s == StageAuthenticated || s == StageFailed
}

// AuthEvent drives AuthStage transitions.
type AuthEvent int

const (
	EventCodeSent AuthEvent = iota
	EventCodeAccepted
	EventPasswordNeeded
	EventPasswordAccepted
	EventSessionReady
	EventRejected
)

var transitions = map[AuthStage]map[AuthEvent]AuthStage{
	StageUnauthenticated:  {EventCodeSent: StageCodeRequested},
	StageCodeRequested:    {EventCodeAccepted: StageCodeAccepted, EventPasswordNeeded: StagePasswordRequired},
	StagePasswordRequired: {EventPasswordAccepted: StagePasswordAccepted},
	StageCodeAccepted:     {EventSessionReady: StageAuthenticated},
	StagePasswordAccepted: {EventSessionReady: StageAuthenticated},
}

// Advance applies an event. Terminal stages do not move; any event that has
// no transition from a non-terminal stage (EventRejected included) yields
// StageFailed.
func (s AuthStage) Advance(e AuthEvent) AuthStage {
	if s.Terminal() {
		return s
	}
	if next, ok := transitions[s][e]; ok {
		return next
	}
	return StageFailed
}
