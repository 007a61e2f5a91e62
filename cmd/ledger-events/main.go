// Command ledger-events tails the ledger's redis streams and logs every
// account and transfer event it receives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/logger"
	sharedredis "github.com/eaglebank/ledger-service/internal/redis"
)

type tailOptions struct {
	group    string
	consumer string
	from     string
}

func main() {
	hostname, _ := os.Hostname()

	var opts tailOptions
	flag.StringVar(&opts.group, "group", "ledger-events-tail", "consumer group name")
	flag.StringVar(&opts.consumer, "consumer", hostname, "consumer name within the group")
	flag.StringVar(&opts.from, "from", "$", `where a new group starts: "0" replays history, "$" only new events`)
	flag.Parse()

	bootstrap := logger.New(os.Stderr, "info", "text")
	cfg, err := config.Load(bootstrap)
	if err != nil {
		bootstrap.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log, opts)
	stop()
	if err != nil {
		log.Error("ledger-events stopped", "error", err)
		os.Exit(1)
	}
}

// run returns nil only when ctx ends the tail.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, opts tailOptions) error {
	if !cfg.RedisEnabled() {
		return errors.New("REDIS_ADDR is not set")
	}

	client, err := sharedredis.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	subscriber := events.NewSubscriber(client.Client, events.SubscriberConfig{
		Group:    opts.group,
		Consumer: opts.consumer,
		Streams:  []string{events.AccountEventsStream, events.TransferEventsStream},
		Logger:   log,
		Handler: func(_ context.Context, stream string, event events.Event) error {
			log.Info(event.Type, "stream", stream, "at", event.Timestamp, "data", event.Data)
			return nil
		},
	})
	if err := subscriber.EnsureGroups(ctx, opts.from); err != nil {
		return fmt.Errorf("failed to prepare consumer groups: %w", err)
	}
	if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
