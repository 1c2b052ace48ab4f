package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	DefaultBaseURL = "https://registry.npmjs.org"

	defaultTimeout = 10 * time.Second
)

// ErrUnknownMode marks an unrecognized target-selection mode.
var ErrUnknownMode = errors.New("unknown resolution mode")

// Mode selects which published version a lookup resolves to.
type Mode int

const (
	// ModeLatest resolves to the version the registry tags as "latest".
	ModeLatest Mode = iota
	// ModeGreatest resolves to the highest published version, which may be
	// ahead of the "latest" tag (pre-releases, unpromoted versions).
	ModeGreatest
)

func (m Mode) String() string {
	switch m {
	case ModeLatest:
		return "latest"
	case ModeGreatest:
		return "greatest"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configuration tag to a Mode. Unrecognized tags are
// rejected before any lookup is issued.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "latest":
		return ModeLatest, nil
	case "greatest":
		return ModeGreatest, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: \"latest\", \"greatest\")", ErrUnknownMode, s)
	}
}

// Client is a handle to an npm-compatible registry. A zero Client is not
// usable; construct one with NewClient.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.client = h
	}
}

// NewClient creates a registry client for baseURL, e.g.
// https://registry.npmjs.org; a trailing slash is tolerated.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// packageDocument is the subset of the registry's package metadata the
// lookups need.
type packageDocument struct {
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// PackageVersion resolves the target version for a package under the given
// mode.
func (c *Client) PackageVersion(ctx context.Context, name string, mode Mode) (string, error) {
	doc, err := c.fetchPackage(ctx, name)
	if err != nil {
		return "", err
	}

	switch mode {
	case ModeLatest:
		latest := doc.DistTags["latest"]
		if latest == "" {
			return "", fmt.Errorf("package %q has no latest tag", name)
		}
		return latest, nil
	case ModeGreatest:
		return greatestVersion(name, doc.Versions)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
}

func (c *Client) fetchPackage(ctx context.Context, name string) (*packageDocument, error) {
	// Scoped names ("@scope/pkg") must keep the slash escaped in the path.
	reqURL := c.baseURL + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("registry request for %q: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request for %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("package %q not found in registry", name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("registry returned status %d for %q", resp.StatusCode, name)
	}

	var doc packageDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding registry response for %q: %w", name, err)
	}
	return &doc, nil
}

// greatestVersion picks the maximum published version under semver ordering.
// Keys that do not parse as semver are skipped.
func greatestVersion(name string, versions map[string]json.RawMessage) (string, error) {
	var greatest *semver.Version
	for raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if greatest == nil || v.GreaterThan(greatest) {
			greatest = v
		}
	}
	if greatest == nil {
		return "", fmt.Errorf("package %q has no published semver versions", name)
	}
	return greatest.Original(), nil
}
