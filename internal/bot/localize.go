package bot

import (
	"errors"
	"fmt"
	"log/slog"

	"zonebot/internal/bus"
	"zonebot/internal/format"
	"zonebot/internal/platform"
	"zonebot/internal/timeparse"
)

// autoLocalize rewrites ordinary chatter containing a time expression:
// the matched span is replaced with a short-time tag and the message is
// reposted with attribution. The original is deleted only when the bot
// has the right; losing that race just leaves both messages up.
func (r *Router) autoLocalize(msg bus.InboundMessage) {
	m := timeparse.FindFirstExpression(msg.Content)
	if m == nil {
		return
	}
	src, err := timeparse.ResolveMatch(m)
	if err != nil {
		if errors.Is(err, timeparse.ErrUnknownZone) {
			r.reply(msg, "Unknown timezone abbreviation")
			return
		}
		slog.Error("bot: localize resolve failed", "error", err)
		return
	}

	rebuilt := msg.Content[:m.Start] + format.Tag(src, format.ShortTime) + msg.Content[m.End:]
	text := fmt.Sprintf("**From:** %s\n%s", msg.AuthorMention, rebuilt)

	if r.gw.PermissionsFor(r.dest(msg)).CanDelete {
		if err := r.gw.DeleteMessage(platformRef(msg)); err != nil {
			slog.Debug("bot: could not delete original message",
				"message", msg.MessageID, "error", err)
		}
	}
	r.reply(msg, text)
}

func platformRef(msg bus.InboundMessage) platform.MessageRef {
	return platform.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.MessageID}
}
