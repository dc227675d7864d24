package batch

// Outcome of processing a single file.
type Outcome int

const (
	Processed Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Processed:
		return "processed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult is the outcome of one file. Err is the last error for failed files.
type FileResult struct {
	Name     string
	Outcome  Outcome
	Attempts int
	Err      error
}

// Summary of a batch run. The name slices are in processing order.
type Summary struct {
	RunID     string
	Processed []string
	Skipped   []string
	Failed    []string
	Results   []FileResult
}

// Total amount of files which have been accounted for.
func (s Summary) Total() int {
	return len(s.Processed) + len(s.Skipped) + len(s.Failed)
}

func (s *Summary) record(r FileResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case Processed:
		s.Processed = append(s.Processed, r.Name)
	case Skipped:
		s.Skipped = append(s.Skipped, r.Name)
	case Failed:
		s.Failed = append(s.Failed, r.Name)
	}
}
