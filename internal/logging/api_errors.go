// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"net/http"
	"strings"

	"github.com/pterm/pterm"
)

// APIErrorType represents the category of a backend error response.
type APIErrorType int

const (
	APIErrorUnknown APIErrorType = iota
	APIErrorAuth
	APIErrorDatabase
	APIErrorBadRequest
	APIErrorInternal
	APIErrorUnavailable
)

// ParseAPIError categorizes a backend error by status code and message.
func ParseAPIError(status int, msg string) APIErrorType {
	lower := strings.ToLower(msg)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return APIErrorAuth
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return APIErrorUnavailable
	}
	// The backend reports database failures verbatim from the driver.
	if strings.Contains(lower, "password authentication failed") ||
		strings.Contains(lower, "connection to server") ||
		strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "connection refused") {
		return APIErrorDatabase
	}
	switch {
	case status >= 500:
		return APIErrorInternal
	case status >= 400:
		return APIErrorBadRequest
	}
	return APIErrorUnknown
}

// FormatAPIError formats a backend error in a user-friendly way.
func FormatAPIError(status int, msg string) string {
	errType := ParseAPIError(status, msg)

	var builder strings.Builder

	switch errType {
	case APIErrorAuth:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Not authorized"))
		builder.WriteString("\n\n")
		builder.WriteString("The backend rejected your session.\n")
		builder.WriteString("  • Your token may have expired (tokens last 10 hours)\n")
		builder.WriteString("  • The backend may have been restarted with a new signing key\n")

	case APIErrorDatabase:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Database connection failed"))
		builder.WriteString("\n\n")
		builder.WriteString("The backend could not reach your database.\n")
		builder.WriteString("  • Check the host, database name, user and password\n")
		builder.WriteString("  • Make sure the database accepts connections from the backend host\n")

	case APIErrorUnavailable:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Backend unavailable"))
		builder.WriteString("\n\n")
		builder.WriteString("A proxy in front of the backend answered instead of the backend itself.\n")

	case APIErrorInternal:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Backend error"))
		builder.WriteString("\n\n")
		builder.WriteString("The backend failed while handling the request.\n")

	default:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Request failed"))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")

	if errType == APIErrorAuth {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'chartviz login' and try again"))
	} else if errType == APIErrorDatabase {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Review the connection with 'chartviz conninfo'"))
	} else {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try again"))
	}
	builder.WriteString("\n")

	if strings.TrimSpace(msg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Details: " + Mask(msg)))
	}

	return builder.String()
}
