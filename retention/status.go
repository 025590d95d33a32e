package retention

// Status is the terminal state of a retention run, reported to the scheduler as the
// process exit code.
type Status int

const (
	StatusDeleted Status = iota
	StatusNoop
	StatusConfigError
	StatusFetchError
	StatusDeleteError
)

func (s Status) String() string {
	switch s {
	case StatusDeleted:
		return "deleted"
	case StatusNoop:
		return "noop"
	case StatusConfigError:
		return "config_error"
	case StatusFetchError:
		return "fetch_error"
	case StatusDeleteError:
		return "delete_error"
	default:
		return "unknown"
	}
}

// ExitCode of the retention process. 1 is left to the runtime (panics) and a no-op run
// exits with 100 so a scheduler can tell it apart from a run that deleted rows.
func (s Status) ExitCode() int {
	switch s {
	case StatusDeleted:
		return 0
	case StatusNoop:
		return 100
	case StatusConfigError:
		return 2
	case StatusFetchError:
		return 3
	case StatusDeleteError:
		return 4
	default:
		return 1
	}
}

// Success is true for both deleted and no-op runs.
func (s Status) Success() bool {
	return s == StatusDeleted || s == StatusNoop
}
