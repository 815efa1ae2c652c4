// Package github implements a model hub backend on top of the GitHub API,
// for teams hosting model repositories on GitHub instead of a dedicated hub.
package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/miniDevOn/hubsync/domain"
)

const hubName = "github"

// Hub implements domain.Hub for GitHub.
type Hub struct {
	token  string
	host   string
	client *gh.Client
}

var _ domain.Hub = (*Hub)(nil)

// New creates a GitHub hub backend. A non-empty endpoint selects a GitHub
// Enterprise host.
func New(token, endpoint string) domain.Hub {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	host := "github.com"
	if endpoint != "" {
		trimmed := strings.TrimSuffix(endpoint, "/")
		if enterprise, err := client.WithEnterpriseURLs(
			trimmed+"/api/v3/", trimmed+"/api/uploads/",
		); err == nil {
			client = enterprise
		}
		host = strings.TrimPrefix(strings.TrimPrefix(trimmed, "https://"), "http://")
	}

	return &Hub{
		token:  token,
		host:   host,
		client: client,
	}
}

// Name returns the hub identifier.
func (h *Hub) Name() string { return hubName }

// CachedToken falls back to the conventional environment variable.
func (h *Hub) CachedToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// Whoami resolves the authenticated user behind the given token, falling
// back to the configured and then cached credential.
func (h *Hub) Whoami(ctx context.Context, token string) (domain.Identity, error) {
	client := h.apiClient(h.effectiveToken(token))

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity lookup failed: %w", err)
	}

	return domain.Identity{
		Name:     user.GetLogin(),
		Fullname: user.GetName(),
		Email:    user.GetEmail(),
	}, nil
}

// EnsureRepo creates the repository if it does not exist yet. An already
// existing repository is not an error.
func (h *Hub) EnsureRepo(ctx context.Context, fullName string, private bool) error {
	client := h.apiClient(h.effectiveToken(""))
	owner, name := splitFullName(fullName)

	// Creating under the authenticated user requires an empty org argument.
	org := owner
	if owner != "" {
		identity, err := h.Whoami(ctx, "")
		if err != nil {
			return err
		}
		if identity.Name == owner {
			org = ""
		}
	}

	//nolint:exhaustruct // only name and visibility are needed at creation
	repo := &gh.Repository{
		Name:    gh.String(name),
		Private: gh.Bool(private),
	}

	_, resp, err := client.Repositories.Create(ctx, org, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			// Name already exists on this account.
			return nil
		}
		return fmt.Errorf("failed to create repository %q: %w", fullName, err)
	}
	return nil
}

// CloneURL returns the HTTPS clone URL, with embedded credentials when a
// token is given.
func (h *Hub) CloneURL(fullName, token string) string {
	if token == "" {
		return fmt.Sprintf("https://%s/%s.git", h.host, fullName)
	}
	return fmt.Sprintf("https://x-access-token:%s@%s/%s.git", token, h.host, fullName)
}

func (h *Hub) effectiveToken(token string) string {
	if token != "" {
		return token
	}
	if h.token != "" {
		return h.token
	}
	return h.CachedToken()
}

// apiClient re-authenticates the configured client when a different
// credential is in effect; base URLs are preserved.
func (h *Hub) apiClient(token string) *gh.Client {
	if token == "" || token == h.token {
		return h.client
	}
	return h.client.WithAuthToken(token)
}

func splitFullName(fullName string) (owner, name string) {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		return fullName[:idx], fullName[idx+1:]
	}
	return "", fullName
}
