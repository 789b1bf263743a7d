package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"zonebot/internal/bus"
	"zonebot/internal/format"
	"zonebot/internal/store"
	"zonebot/internal/timeparse"
)

// cmdTime shows current times across the important zones, or converts
// a supplied expression across them.
func (r *Router) cmdTime(msg bus.InboundMessage, args string) {
	if args == "" {
		loc, ok := r.homeLocation(msg)
		if !ok {
			return
		}
		r.replyListing(msg, time.Now().In(loc))
		return
	}

	m := timeparse.FindFirstExpression(args)
	if m == nil {
		r.reply(msg, "Could not find a time and timezone. Try like: `~time 12 nzdt` or `~time 6:15 pm aedt`.")
		return
	}
	src, err := timeparse.ResolveMatch(m)
	if err != nil {
		r.replyResolveError(msg, err)
		return
	}
	r.replyListing(msg, src)
}

func (r *Router) replyListing(msg bus.InboundMessage, src time.Time) {
	text, err := format.MultiZoneListing(src)
	if err != nil {
		slog.Error("bot: listing failed", "error", err)
		return
	}
	r.reply(msg, text)
}

// homeLocation loads the configured home zone. On failure the user gets
// a short note rather than silence.
func (r *Router) homeLocation(msg bus.InboundMessage) (*time.Location, bool) {
	loc, err := time.LoadLocation(r.home)
	if err != nil {
		slog.Error("bot: home zone unavailable", "zone", r.home, "error", err)
		r.reply(msg, "The home timezone is misconfigured. Ask an admin to check the bot config.")
		return nil, false
	}
	return loc, true
}

func (r *Router) replyResolveError(msg bus.InboundMessage, err error) {
	if errors.Is(err, timeparse.ErrUnknownZone) {
		r.reply(msg, "Unknown timezone abbreviation")
		return
	}
	slog.Error("bot: resolve failed", "error", err)
}

var (
	nameQuotedRe = regexp.MustCompile(`--name\s+"([^"]+)"`)
	nameBareRe   = regexp.MustCompile(`--name\s+([^\-][\s\S]+?)(?:\s--|$)`)
)

// parseEventFlags pulls --name (bare or quoted) and --thread out of the
// raw argument text.
func parseEventFlags(args string) (name string, thread bool) {
	name = "Event"
	if m := nameQuotedRe.FindStringSubmatch(args); m != nil {
		name = m[1]
	} else if m := nameBareRe.FindStringSubmatch(args); m != nil {
		name = strings.TrimSpace(m[1])
	}
	return name, strings.Contains(args, "--thread")
}

// cmdEvent schedules an event with reminders.
// Usage: ~event 6:15 pm nzdt --name Valorant scrims [--thread]
func (r *Router) cmdEvent(msg bus.InboundMessage, args string) {
	m := timeparse.FindFirstExpression(args)
	if m == nil {
		r.reply(msg, "Could not find a time+timezone. Try: `~event 6:15 pm nzdt --name My Match`")
		return
	}
	src, err := timeparse.ResolveMatch(m)
	if err != nil {
		r.replyResolveError(msg, err)
		return
	}

	name, wantThread := parseEventFlags(args)
	ev := r.store.Register(store.Origin{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		CreatorID: msg.AuthorID,
	}, name, src, msg.MessageID)

	threadLine := ""
	if wantThread {
		threadLine = r.createEventThread(msg, ev)
	}

	r.reply(msg, fmt.Sprintf("Scheduled **%s** for %s. ID `%d`.%s",
		ev.Name, format.LongWhen(src), ev.ID, threadLine))
}

// createEventThread is advisory: any failure turns into a note in the
// confirmation, never an error.
func (r *Router) createEventThread(msg bus.InboundMessage, ev store.Event) string {
	dest := r.dest(msg)
	if !r.gw.PermissionsFor(dest).CanThread {
		return "\n(Cannot create threads in this channel type.)"
	}
	anchor := platformRef(msg)
	threadID, err := r.gw.CreateThread(dest, ev.Name, anchor)
	if err != nil {
		slog.Debug("bot: thread creation failed", "event", ev.ID, "error", err)
		return "\n(Unable to create thread.)"
	}
	r.store.SetThreadID(ev.ID, threadID)
	return fmt.Sprintf("\nThread: <#%s>", threadID)
}

// cmdEvents lists upcoming events, soonest first, in the home zone.
func (r *Router) cmdEvents(msg bus.InboundMessage) {
	upcoming := r.store.Upcoming(time.Now())
	if len(upcoming) == 0 {
		r.reply(msg, "No upcoming events.")
		return
	}
	loc, ok := r.homeLocation(msg)
	if !ok {
		return
	}
	lines := make([]string, 0, len(upcoming))
	for _, ev := range upcoming {
		lines = append(lines, fmt.Sprintf("ID `%d` — **%s** — %s in <#%s>",
			ev.ID, ev.Name, format.LongWhen(ev.Start().In(loc)), ev.ChannelID))
	}
	r.reply(msg, strings.Join(lines, "\n"))
}

var eventIDRe = regexp.MustCompile(`\d+`)

// cmdCancel cancels an event by id. Only the creator or a member with
// the moderation override may cancel.
func (r *Router) cmdCancel(msg bus.InboundMessage, args string) {
	id, err := strconv.ParseInt(eventIDRe.FindString(args), 10, 64)
	if err != nil {
		r.reply(msg, "Please provide a numeric event ID. Example: `~cancel 12`")
		return
	}

	override := r.gw.MemberHasOverride(r.dest(msg), msg.AuthorID)
	ev, err := r.store.Cancel(id, msg.AuthorID, override)
	switch {
	case errors.Is(err, store.ErrNotFound):
		r.reply(msg, "No such event ID.")
	case errors.Is(err, store.ErrForbidden):
		r.reply(msg, "Only the creator or a moderator can cancel this event.")
	case err == nil:
		r.reply(msg, fmt.Sprintf("Cancelled event `%d` (**%s**).", id, ev.Name))
	}
}
