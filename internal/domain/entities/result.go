package entities

// Outcome is the terminal state of one repository in a reconciliation run.
type Outcome int

const (
	OutcomeNoMatch Outcome = iota
	OutcomeInvalid
	OutcomeSkipped
	OutcomeDryRun
	OutcomeMissingFile
	OutcomeDone
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeMissingFile:
		return "missing-file"
	case OutcomeDone:
		return "done"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RepositoryResult records what happened to one candidate repository.
type RepositoryResult struct {
	Repository  CandidateRepository
	Outcome     Outcome
	PullRequest *PullRequest
	Err         error
}

// RunReport aggregates the results of a run, in processing order.
type RunReport struct {
	Results []RepositoryResult
}

// Add appends a repository result.
func (r *RunReport) Add(result RepositoryResult) {
	r.Results = append(r.Results, result)
}

// Count returns how many repositories ended in the given outcome.
func (r *RunReport) Count(outcome Outcome) int {
	count := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			count++
		}
	}
	return count
}
