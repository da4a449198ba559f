package discord

import (
	"log/slog"
	"strings"
	"sync"

	"contextbot/app/config"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// MessageHandler receives normalized direct messages from non-bot authors.
type MessageHandler func(channelID, userID, text string)

type Client struct {
	cfg     *config.Config
	session *discordgo.Session

	mutex          sync.RWMutex
	messageHandler MessageHandler
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return nil, oops.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	client := &Client{
		cfg:     cfg,
		session: session,
	}

	session.AddHandler(client.onReady)
	session.AddHandler(client.onMessageCreate)

	return client, nil
}

func (c *Client) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Connected to Discord gateway", "username", r.User.Username)
}

func (c *Client) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	// Guild messages carry a guild ID, DMs don't.
	if m.GuildID != "" {
		slog.Debug("Ignoring non-DM message", "guild_id", m.GuildID, "channel_id", m.ChannelID)
		return
	}

	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	c.mutex.RLock()
	handler := c.messageHandler
	c.mutex.RUnlock()

	if handler == nil {
		return
	}

	handler(m.ChannelID, m.Author.ID, text)
}

func (c *Client) SetListener(listener MessageHandler) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.messageHandler = listener
}

func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return oops.Errorf("failed to open discord gateway: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

func (c *Client) SendMessage(channelID, text string) error {
	if _, err := c.session.ChannelMessageSend(channelID, text); err != nil {
		return oops.Errorf("failed to send message to discord: %w", err)
	}

	return nil
}
