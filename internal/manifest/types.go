// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest resolves the backend base URL and endpoint paths.
//
// Paths default to the routes of the chart backend and can be overridden one by
// one from the config file.
package manifest

import (
	"strings"
)

// Manifest is a resolved backend location.
type Manifest struct {
	BaseURL string
	HTTP    HTTPEndpoints
}

// HTTPEndpoints contains REST API endpoint paths.
type HTTPEndpoints struct {
	Login            string `yaml:"login,omitempty"`             // e.g., "/api/auth/login"
	Objects          string `yaml:"objects,omitempty"`           // e.g., "/api/charts/objects"
	ObjectParameters string `yaml:"object_parameters,omitempty"` // e.g., "/api/charts/object-parameters"
	Data             string `yaml:"data,omitempty"`              // e.g., "/api/charts/data"
}

// DefaultEndpoints returns the routes served by the chart backend.
func DefaultEndpoints() HTTPEndpoints {
	return HTTPEndpoints{
		Login:            "/api/auth/login",
		Objects:          "/api/charts/objects",
		ObjectParameters: "/api/charts/object-parameters",
		Data:             "/api/charts/data",
	}
}

// Merge fills empty paths of e from def.
func (e HTTPEndpoints) Merge(def HTTPEndpoints) HTTPEndpoints {
	pick := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return normalizePath(v)
	}
	return HTTPEndpoints{
		Login:            pick(e.Login, def.Login),
		Objects:          pick(e.Objects, def.Objects),
		ObjectParameters: pick(e.ObjectParameters, def.ObjectParameters),
		Data:             pick(e.Data, def.Data),
	}
}

// URL joins the base URL with an endpoint path.
func (m *Manifest) URL(path string) string {
	return m.BaseURL + normalizePath(path)
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
