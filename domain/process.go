package domain

// NonDistributedRank is the rank reported by a run that is not distributed.
const NonDistributedRank = -1

// IsMainProcess reports whether the given distributed rank designates the
// participant that is allowed to mutate shared external state (the hub
// repository and its working copy). All other participants must treat
// every mutating entry point as a no-op.
func IsMainProcess(localRank int) bool {
	return localRank == NonDistributedRank || localRank == 0
}
