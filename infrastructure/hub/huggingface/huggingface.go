// Package huggingface implements the Hugging Face hub backend over its
// REST API: identity lookup, repository creation and clone URLs.
package huggingface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/miniDevOn/hubsync/domain"
)

const (
	hubName = "huggingface"

	// DefaultEndpoint is the public Hugging Face hub.
	DefaultEndpoint = "https://huggingface.co"

	retryMax = 3
)

var errNoToken = errors.New(
	"no hub token available: pass one explicitly or log in to the hub first",
)

// Hub implements domain.Hub for the Hugging Face hub.
type Hub struct {
	token    string
	endpoint string
	client   *retryablehttp.Client
}

var _ domain.Hub = (*Hub)(nil)

// New creates a Hugging Face hub backend. An empty endpoint selects the
// public hub.
func New(token, endpoint string) domain.Hub {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.Logger = nil

	return &Hub{
		token:    token,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   client,
	}
}

// Name returns the hub identifier.
func (h *Hub) Name() string { return hubName }

// CachedToken returns the token stored by a previous hub login, or "".
func (h *Hub) CachedToken() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".cache", "huggingface", "token"),
		filepath.Join(home, ".huggingface", "token"),
	}
	for _, p := range paths {
		if data, readErr := os.ReadFile(p); readErr == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token
			}
		}
	}
	return ""
}

// Whoami resolves the identity behind the given token, falling back to the
// configured and then locally cached credential.
func (h *Hub) Whoami(ctx context.Context, token string) (domain.Identity, error) {
	token = h.effectiveToken(token)
	if token == "" {
		return domain.Identity{}, errNoToken
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodGet, h.endpoint+"/api/whoami-v2", nil,
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to build whoami request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, doErr := h.client.Do(req)
	if doErr != nil {
		return domain.Identity{}, fmt.Errorf("identity lookup failed: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Identity{}, fmt.Errorf(
			"identity lookup failed: hub returned %s", resp.Status,
		)
	}

	var payload struct {
		Name     string `json:"name"`
		Fullname string `json:"fullname"`
		Email    string `json:"email"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return domain.Identity{}, fmt.Errorf("failed to decode whoami response: %w", decodeErr)
	}

	return domain.Identity{
		Name:     payload.Name,
		Fullname: payload.Fullname,
		Email:    payload.Email,
	}, nil
}

// EnsureRepo creates the model repository if it does not exist yet. An
// already existing repository is not an error.
func (h *Hub) EnsureRepo(ctx context.Context, fullName string, private bool) error {
	token := h.effectiveToken("")
	if token == "" {
		return errNoToken
	}

	owner, name := splitFullName(fullName)

	// The create endpoint wants an organization only when the owner is not
	// the authenticated user itself.
	organization := owner
	if owner != "" {
		identity, err := h.Whoami(ctx, token)
		if err != nil {
			return err
		}
		if identity.Name == owner {
			organization = ""
		}
	}

	payload := map[string]interface{}{
		"type":    "model",
		"name":    name,
		"private": private,
	}
	if organization != "" {
		payload["organization"] = organization
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode create request: %w", err)
	}

	req, reqErr := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, h.endpoint+"/api/repos/create", bytes.NewReader(body),
	)
	if reqErr != nil {
		return fmt.Errorf("failed to build create request: %w", reqErr)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := h.client.Do(req)
	if doErr != nil {
		return fmt.Errorf("failed to create repository %q: %w", fullName, doErr)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		// Conflict means the repository already exists.
		return nil
	default:
		return fmt.Errorf(
			"failed to create repository %q: hub returned %s", fullName, resp.Status,
		)
	}
}

// CloneURL returns the HTTPS clone URL, with embedded credentials when a
// token is given.
func (h *Hub) CloneURL(fullName, token string) string {
	parsed, err := url.Parse(h.endpoint)
	if err != nil {
		return h.endpoint + "/" + fullName
	}

	if token != "" {
		// The hub accepts any username when a token is used as password.
		parsed.User = url.UserPassword("user", token)
	}
	parsed.Path = path.Join(parsed.Path, fullName)
	return parsed.String()
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

func splitFullName(fullName string) (owner, name string) {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		return fullName[:idx], fullName[idx+1:]
	}
	return "", fullName
}
