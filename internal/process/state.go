package process

import "github.com/tucha-cloud/tucha/internal/constants"

// Kind identifies a running operation.
type Kind int

const (
	ConnectingToAllSavedClients Kind = iota + 1
	SendingLoginCode
	SigningIn
	GettingUploadedFiles
	UploadingFiles
	DownloadingFiles
	DeletingFiles
	StoringAppCredentials
)

var kindLabels = map[Kind]string{
	ConnectingToAllSavedClients: "Connecting to all saved clients...",
	SendingLoginCode:            "Sending login code...",
	SigningIn:                   "Log in...",
	GettingUploadedFiles:        "Getting uploaded files...",
	UploadingFiles:              "Uploading files...",
	DownloadingFiles:            "Downloading files...",
	DeletingFiles:               "Deleting files...",
	StoringAppCredentials:       "Saving api keys...",
}

func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return "Working..."
}

// Phase is the discriminator of State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseError
)

// State is the single process-state slot: Idle, Running(kind) or Error(err).
// It is a value; every transition replaces it.
type State struct {
	phase Phase
	kind  Kind
	err   *Error
}

// Idle returns the idle state.
func Idle() State {
	return State{phase: PhaseIdle}
}

// Running returns the state for an operation in flight.
func Running(kind Kind) State {
	return State{phase: PhaseRunning, kind: kind}
}

// Failed returns the error state.
func Failed(err *Error) State {
	return State{phase: PhaseError, err: err}
}

func (s State) Phase() Phase    { return s.phase }
func (s State) IsIdle() bool    { return s.phase == PhaseIdle }
func (s State) IsRunning() bool { return s.phase == PhaseRunning }
func (s State) IsError() bool   { return s.phase == PhaseError }

// Kind returns the running operation, if any.
func (s State) Kind() (Kind, bool) {
	return s.kind, s.phase == PhaseRunning
}

// Err returns the failure held by an error state, nil otherwise.
func (s State) Err() *Error {
	if s.phase != PhaseError {
		return nil
	}
	return s.err
}

// String renders the status line text.
func (s State) String() string {
	switch s.phase {
	case PhaseRunning:
		return s.kind.String()
	case PhaseError:
		if s.err == nil {
			return "Error."
		}
		return s.err.Error()
	default:
		return constants.AppName
	}
}
