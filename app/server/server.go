package server

import (
	"context"
	"fmt"
	"time"

	"contextbot/app/client/llm"
	"contextbot/app/config"
	"contextbot/app/service/relay"
	"contextbot/app/service/verify"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg       *config.Config
	llmClient *llm.Client
	relaySvc  *relay.Service
	verifier  *verify.Verifier

	app *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:       do.MustInvoke[*config.Config](di),
		llmClient: do.MustInvoke[*llm.Client](di),
		relaySvc:  do.MustInvoke[*relay.Service](di),
		verifier:  do.MustInvoke[*verify.Verifier](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.app.Get("/", s.handleIndex)
	s.app.Post("/chat", s.handleChat)
	s.app.Post("/interactions", s.handleInteractions)

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.ShutdownWithTimeout(shutdownTimeout)
	}()

	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Server.Port))
}
