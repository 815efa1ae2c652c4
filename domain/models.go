package domain

// Identity represents the authenticated account on a model hub.
type Identity struct {
	Name     string
	Fullname string
	Email    string
}

// RepoRef references a hub repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// FullName returns the fully-qualified repository name ("owner/name").
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// CheckpointStrategy controls which checkpoint directories end up on the hub.
type CheckpointStrategy string

const (
	// StrategyEverySave pushes the latest state on every save; intermediate
	// checkpoint directories are kept out of the repository via .gitignore.
	StrategyEverySave CheckpointStrategy = "every_save"
	// StrategyAllCheckpoints commits every checkpoint directory.
	StrategyAllCheckpoints CheckpointStrategy = "all_checkpoints"
	// StrategyEndOfTraining pushes only once, after training finishes.
	StrategyEndOfTraining CheckpointStrategy = "end"
)

// PushOptions holds the parameters of a single push.
type PushOptions struct {
	CommitMessage string
	Blocking      bool
	AutoLFSPrune  bool
}

// PushOutcome is the result of a checkpoint push. CommitURL always refers to
// the checkpoint commit. Job is set for non-blocking pushes. CardPushErr
// records a failed model card push, which is never fatal for the overall
// operation.
type PushOutcome struct {
	CommitURL   string
	Job         PushJob
	CardPushErr error
}
