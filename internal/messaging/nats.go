package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/logger"
)

// BATCH_SUBJECT_SUFFIX is appended to the subject prefix to form the AL3 batch subject
const BATCH_SUBJECT_SUFFIX = "al3.batches"

// Config holds the NATS connection and stream settings shared by every service
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// MaxAge bounds how long messages are retained on the stream; zero keeps them until acked
	MaxAge time.Duration
}

// BatchSubject returns the subject AL3 download batches are published on
func BatchSubject(prefix string) string {
	return subject(prefix, BATCH_SUBJECT_SUFFIX)
}

func subject(prefix, suffix string) string {
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		return suffix
	}
	return prefix + "." + suffix
}

// Connect opens a NATS connection with reconnect logging and returns its JetStream context
func Connect(cfg Config, natsJS adapter.NatsJetStream) (adapter.NatsConn, adapter.JetStream, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}
	return nc, js, nil
}

// EnsureStream creates or updates the work-queue stream that carries every subject under the prefix
func EnsureStream(ctx context.Context, js adapter.JetStream, cfg Config) error {
	streamCfg := jetstream.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  []string{subject(cfg.SubjectPrefix, ">")},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
		MaxAge:    cfg.MaxAge,
	}
	if err := js.CreateOrUpdateStream(ctx, streamCfg); err != nil {
		return fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}
	logger.InfoCtx(ctx, "Stream ready",
		zap.String("stream", cfg.StreamName),
		zap.Strings("subjects", streamCfg.Subjects))
	return nil
}
