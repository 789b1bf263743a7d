// Package platform is the chat-platform boundary. The bot core talks
// to the Gateway interface only; the Discord implementation lives here
// too but nothing outside the package touches the session directly.
package platform

import "errors"

// ErrForbidden reports a platform permission rejection.
var ErrForbidden = errors.New("missing permission")

// Destination addresses a channel a message can be delivered to.
type Destination struct {
	GuildID   string // empty for direct messages
	ChannelID string
}

// MessageRef is an opaque handle to a delivered message.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Capabilities describes what the bot may do in a destination.
type Capabilities struct {
	CanDelete bool
	CanThread bool
}

// Gateway is the surface the scheduler and command handlers depend on.
type Gateway interface {
	// SendText delivers text to dest and returns a handle to the sent
	// message.
	SendText(dest Destination, text string) (MessageRef, error)

	// DeleteMessage removes a message. Returns ErrForbidden when the
	// bot lacks the right.
	DeleteMessage(ref MessageRef) error

	// CreateThread starts a thread anchored on an existing message and
	// returns the thread id. Advisory: callers treat failure as
	// non-fatal.
	CreateThread(dest Destination, name string, anchor MessageRef) (string, error)

	// PermissionsFor reports the bot's own capabilities in dest.
	PermissionsFor(dest Destination) Capabilities

	// MemberHasOverride reports whether userID holds the moderation
	// privilege that allows cancelling other users' events.
	MemberHasOverride(dest Destination, userID string) bool
}
