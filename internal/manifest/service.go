package manifest

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve validates baseURL and merges overrides onto the default endpoints.
// Results are cached in RAM per base URL for the lifetime of the process.
func Resolve(baseURL string, overrides HTTPEndpoints) (*Manifest, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if cached := GetCached(base); cached != nil && cached.HTTP == overrides.Merge(cached.HTTP) {
		return cached, nil
	}

	m := &Manifest{
		BaseURL: base,
		HTTP:    overrides.Merge(DefaultEndpoints()),
	}
	SetCached(m)
	return m, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("api url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid api url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid api url %q: missing host", raw)
	}
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"), nil
}
