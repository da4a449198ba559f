package engine

import (
	"context"
	"log/slog"
	"time"

	"contextbot/app/client/discord"
	"contextbot/app/config"
	"contextbot/app/service/queue"
	"contextbot/app/service/relay"

	"github.com/samber/do"
)

// Service pumps Discord direct messages through the per-user queue into
// the relay and sends the resulting chunks back to the DM channel.
type Service struct {
	cfg           *config.Config
	discordClient *discord.Client
	relaySvc      *relay.Service
	queueSvc      *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:           do.MustInvoke[*config.Config](di),
		discordClient: do.MustInvoke[*discord.Client](di),
		relaySvc:      do.MustInvoke[*relay.Service](di),
		queueSvc:      do.MustInvoke[*queue.Service](di),
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	s.discordClient.SetListener(func(channelID, userID, text string) {
		// One worker per user keeps history mutations for an identity
		// strictly in arrival order even while provider calls overlap.
		s.queueSvc.Submit(userID, func() {
			s.handleMessage(ctx, channelID, userID, text)
		})
	})

	if err := s.discordClient.Open(); err != nil {
		return err
	}

	<-ctx.Done()

	return s.discordClient.Close()
}

func (s *Service) handleMessage(ctx context.Context, channelID, userID, text string) {
	start := time.Now()

	chunks, err := s.relaySvc.Reply(ctx, userID, text)
	if err != nil {
		slog.Error("Failed to generate reply",
			"user_id", userID,
			"error", err,
		)
	}

	for _, chunk := range chunks {
		if err := s.discordClient.SendMessage(channelID, chunk); err != nil {
			slog.Error("Failed to send message",
				"channel_id", channelID,
				"error", err,
			)
			return
		}
	}

	slog.Info("Processed direct message",
		"user_id", userID,
		"duration", time.Since(start))
}
