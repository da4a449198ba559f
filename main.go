package main

import (
	"context"
	"contextbot/app/client/discord"
	"contextbot/app/client/llm"
	"contextbot/app/config"
	"contextbot/app/server"
	"contextbot/app/service/contextstore"
	"contextbot/app/service/conversation"
	"contextbot/app/service/engine"
	"contextbot/app/service/queue"
	"contextbot/app/service/relay"
	"contextbot/app/service/verify"
	"contextbot/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, contextstore.New)
	do.Provide(di, conversation.New)
	do.Provide(di, verify.New)
	do.Provide(di, llm.NewClient)
	do.Provide(di, discord.NewClient)
	do.Provide(di, queue.New)
	do.Provide(di, relay.New)
	do.Provide(di, engine.New)
	do.Provide(di, server.New)

	// The context file is mandatory input to every conversation, fail
	// before serving anything.
	if _, err = do.Invoke[*contextstore.Service](di); err != nil {
		log.Fatalf("context load failed: %v", err)
	}

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		return do.MustInvoke[*server.Server](di).Run(gCtx)
	})
	g.Go(func() error {
		return do.MustInvoke[*engine.Service](di).Run(gCtx)
	})

	if err = g.Wait(); err != nil {
		log.Fatalf("service failed: %v", err)
	}
}
