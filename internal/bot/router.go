// Package bot routes inbound chat messages: prefix commands go to
// their handlers, everything else is offered to the auto-localizer.
// Nothing in here returns an error to the consume loop; failures are
// reported to the origin channel or logged.
package bot

import (
	"log/slog"
	"strings"

	"zonebot/internal/bus"
	"zonebot/internal/platform"
	"zonebot/internal/store"
)

const (
	defaultPrefix   = "~"
	defaultHomeZone = "Pacific/Auckland"
)

// Router dispatches inbound messages to command handlers.
type Router struct {
	store *store.Store
	gw    platform.Gateway

	prefix string
	home   string // IANA id anchoring "current time" displays
}

func NewRouter(st *store.Store, gw platform.Gateway, prefix, homeZone string) *Router {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if homeZone == "" {
		homeZone = defaultHomeZone
	}
	return &Router{store: st, gw: gw, prefix: prefix, home: homeZone}
}

// Handle processes one inbound message.
func (r *Router) Handle(msg bus.InboundMessage) {
	if msg.Bot {
		return
	}
	if strings.HasPrefix(msg.Content, r.prefix) {
		name, args, _ := strings.Cut(strings.TrimPrefix(msg.Content, r.prefix), " ")
		args = strings.TrimSpace(args)
		switch strings.ToLower(name) {
		case "time":
			r.cmdTime(msg, args)
		case "event":
			r.cmdEvent(msg, args)
		case "events":
			r.cmdEvents(msg)
		case "cancel":
			r.cmdCancel(msg, args)
		case "help":
			r.cmdHelp(msg)
		default:
			// Not one of ours; treat it like ordinary chatter.
			r.autoLocalize(msg)
		}
		return
	}
	r.autoLocalize(msg)
}

func (r *Router) dest(msg bus.InboundMessage) platform.Destination {
	return platform.Destination{GuildID: msg.GuildID, ChannelID: msg.ChannelID}
}

func (r *Router) reply(msg bus.InboundMessage, text string) {
	if _, err := r.gw.SendText(r.dest(msg), text); err != nil {
		slog.Warn("bot: reply failed", "channel", msg.ChannelID, "error", err)
	}
}
