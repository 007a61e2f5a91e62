// Package command holds the write side of the ledger: account commands and
// the transfer engine. Each command runs under its own deadline and, once
// committed, refreshes the read model and publishes a domain event.
package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/logger"
	"github.com/eaglebank/ledger-service/internal/repository"
)

const afterCommitTimeout = 2 * time.Second

// Options are shared by the command services.
type Options struct {
	// Timeout bounds each command's database work.
	Timeout time.Duration
	Logger  *slog.Logger
}

// logger returns the configured logger tagged with ctx's request id.
func (o Options) logger(ctx context.Context) *slog.Logger {
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	return logger.FromContext(ctx, l)
}

// readModel is the set of cached projections a committed write invalidates.
type readModel struct {
	accounts  *repository.AccountReadRepository
	transfers *repository.TransferReadRepository
}

// afterCommit invalidates the cached lists and publishes the event. It is
// detached from the request so a client disconnect cannot leave a stale
// cache behind.
func afterCommit(ctx context.Context, log *slog.Logger, views readModel, publisher *events.Publisher, stream, eventType string, data any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	views.accounts.Invalidate(ctx)
	views.transfers.Invalidate(ctx)

	if err := publisher.Publish(ctx, stream, eventType, data); err != nil {
		log.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}

func logStorageFailure(log *slog.Logger, op string, err error) {
	if apperr.KindOf(err) == apperr.KindStorage {
		log.Error("Ledger operation failed", "op", op, "error", err)
	}
}
