package entities

// CandidateRepository is a repository returned by a search or fork call.
type CandidateRepository struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
	CloneURL      string
	SSHURL        string
	Fork          bool

	// Parent fields are only populated for forks.
	ParentOwner         string
	ParentName          string
	ParentDefaultBranch string
}

// HasParent reports whether the repository is a fork with a known upstream.
func (r CandidateRepository) HasParent() bool {
	return r.ParentOwner != "" && r.ParentName != ""
}

// Parent returns the upstream repository of a fork.
func (r CandidateRepository) Parent() CandidateRepository {
	return CandidateRepository{
		Owner:         r.ParentOwner,
		Name:          r.ParentName,
		FullName:      r.ParentOwner + "/" + r.ParentName,
		DefaultBranch: r.ParentDefaultBranch,
	}
}

// CodeHit is a single code search result. It is only a hint that the file may
// contain the searched term.
type CodeHit struct {
	HTMLURL string
	Path    string
}

// LocalCheckout is a clone of a fork on the local filesystem.
type LocalCheckout struct {
	Path   string
	Branch string
}
