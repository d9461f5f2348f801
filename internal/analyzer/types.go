package analyzer

import "time"

// State는 파일 한 개의 처리 단계입니다. 값이 클수록 뒤 단계입니다.
type State int

const (
	StatePending State = iota
	StateProcessing
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateProcessing:
		return "Processing"
	case StateReady:
		return "Ready"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool { return s == StateReady || s == StateError }

type Status struct {
	State   State
	Message string // only for StateError
}

var (
	Pending    = Status{State: StatePending}
	Processing = Status{State: StateProcessing}
	Ready      = Status{State: StateReady}
)

func Failed(msg string) Status { return Status{State: StateError, Message: msg} }

func (s Status) String() string {
	if s.State == StateError && s.Message != "" {
		return "Error - " + s.Message
	}
	return s.State.String()
}

// FileRecord is a point-in-time copy of one file's status.
type FileRecord struct {
	File        string
	Row         int
	Status      Status
	Rate        float64 // lines/sec
	UniqueCount int
	LastUpdate  time.Time
}

// Summary is delivered once the completion barrier has released.
type Summary struct {
	RunID     string
	Files     int
	Completed int64
	Failed    int
	Lines     int64
	Unique    int
	Output    string
	Written   int
	Elapsed   time.Duration
	Err       error // output write failure
}
