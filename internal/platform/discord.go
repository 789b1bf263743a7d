package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"zonebot/internal/bus"
)

// threadArchiveMinutes is the auto-archive duration for event threads.
const threadArchiveMinutes = 1440

// noMentions keeps rewritten and reminder messages from pinging anyone.
var noMentions = &discordgo.MessageAllowedMentions{}

// Discord implements Gateway over a discordgo session and publishes
// inbound messages onto the bus.
type Discord struct {
	session *discordgo.Session
	queue   *bus.Queue
}

func NewDiscord(token string, queue *bus.Queue) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	return &Discord{session: session, queue: queue}, nil
}

func (d *Discord) Start(ctx context.Context) error {
	d.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		d.queue.Publish(bus.InboundMessage{
			GuildID:       m.GuildID,
			ChannelID:     m.ChannelID,
			MessageID:     m.ID,
			AuthorID:      m.Author.ID,
			AuthorMention: m.Author.Mention(),
			Content:       m.Content,
			Bot:           m.Author.Bot,
		})
	})
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("discord: open websocket: %w", err)
	}
	return nil
}

func (d *Discord) Stop() error {
	return d.session.Close()
}

func (d *Discord) SendText(dest Destination, text string) (MessageRef, error) {
	msg, err := d.session.ChannelMessageSendComplex(dest.ChannelID, &discordgo.MessageSend{
		Content:         text,
		AllowedMentions: noMentions,
	})
	if err != nil {
		return MessageRef{}, fmt.Errorf("discord: send: %w", err)
	}
	return MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (d *Discord) DeleteMessage(ref MessageRef) error {
	err := d.session.ChannelMessageDelete(ref.ChannelID, ref.MessageID)
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusForbidden {
		return ErrForbidden
	}
	return fmt.Errorf("discord: delete message: %w", err)
}

func (d *Discord) CreateThread(dest Destination, name string, anchor MessageRef) (string, error) {
	thread, err := d.session.MessageThreadStart(anchor.ChannelID, anchor.MessageID, name, threadArchiveMinutes)
	if err != nil {
		return "", fmt.Errorf("discord: start thread: %w", err)
	}
	return thread.ID, nil
}

func (d *Discord) PermissionsFor(dest Destination) Capabilities {
	if dest.GuildID == "" {
		return Capabilities{} // DMs: no message management, no threads
	}
	if d.session.State == nil || d.session.State.User == nil {
		return Capabilities{}
	}
	perms, err := d.session.State.UserChannelPermissions(d.session.State.User.ID, dest.ChannelID)
	if err != nil {
		return Capabilities{}
	}
	return Capabilities{
		CanDelete: perms&discordgo.PermissionManageMessages != 0,
		CanThread: perms&discordgo.PermissionCreatePublicThreads != 0,
	}
}

func (d *Discord) MemberHasOverride(dest Destination, userID string) bool {
	if dest.GuildID == "" {
		return false
	}
	perms, err := d.session.State.UserChannelPermissions(userID, dest.ChannelID)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionManageMessages != 0
}
