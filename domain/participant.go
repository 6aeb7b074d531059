// Package domain contains core concepts of the chat system.
// This file defines user and connection identities.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

// UserID is the opaque identity handed over by the authentication layer.
// It is trusted as-is and never parsed.
type UserID string

func (u UserID) String() string { return string(u) }

// IsZero reports whether the identity is empty once trimmed.
func (u UserID) IsZero() bool { return strings.TrimSpace(string(u)) == "" }

// ConnectionID identifies one live client channel for its whole lifetime.
type ConnectionID string

func (c ConnectionID) String() string { return string(c) }

// ConnectionState is the lifecycle position of a single connection.
type ConnectionState int

const (
	// Anonymous connections are open but never announced a user.
	Anonymous ConnectionState = iota
	// Registered connections hold (or held) a presence entry.
	Registered
	// Closed connections are gone for good.
	Closed
)

func (s ConnectionState) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Registered:
		return "registered"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
