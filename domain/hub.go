package domain

import "context"

// Hub abstracts a model hosting service (Hugging Face, GitHub, etc.).
// Each implementation handles authentication, identity lookup and
// repository creation for its platform.
type Hub interface {
	// Name returns the hub identifier (e.g. "huggingface", "github").
	Name() string

	// Whoami resolves the identity behind the given token. An empty token
	// falls back to the hub's configured and then locally cached credential.
	Whoami(ctx context.Context, token string) (Identity, error)

	// CachedToken returns the locally stored credential for this hub, or
	// an empty string when none is available.
	CachedToken() string

	// EnsureRepo creates the repository on the hub if it does not exist yet,
	// with the requested visibility. Creating an already existing repository
	// is not an error.
	EnsureRepo(ctx context.Context, fullName string, private bool) error

	// CloneURL returns an HTTPS clone URL for the repository, with embedded
	// credentials when a token is given.
	CloneURL(fullName, token string) string
}
