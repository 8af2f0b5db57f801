package importer

import "fmt"

// FileState tracks one file through an import run.
type FileState int

const (
	Queued FileState = iota
	Running
	Succeeded
	Failed
)

func (s FileState) String() string {
	switch s {
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("FileState(%d)", int(s))
	}
}

func (s FileState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// FileStatus is owned by the task processing the file until the run's barrier.
type FileStatus struct {
	Path  string
	State FileState
}

// advance moves to the next state. Queued -> Running -> Succeeded|Failed;
// Queued -> Failed is allowed for files that never started.
func (f *FileStatus) advance(to FileState) error {
	ok := false
	switch f.State {
	case Queued:
		ok = to == Running || to == Failed
	case Running:
		ok = to == Succeeded || to == Failed
	}
	if !ok {
		return fmt.Errorf("file %s: illegal transition %s -> %s", f.Path, f.State, to)
	}
	f.State = to
	return nil
}
