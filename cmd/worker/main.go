package main

// Blob reclamation worker. Consumes deferred-delete orders from the reclaim
// queue and removes the named blobs. Failed deletes are left on the queue so
// the backend redelivers them.

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"fileuploader-backend/internal/queue"
	"fileuploader-backend/internal/shared/config"
	"fileuploader-backend/internal/shared/metrics"
	"fileuploader-backend/internal/shared/storage/blob"
	localstore "fileuploader-backend/internal/shared/storage/blob/local"
	s3store "fileuploader-backend/internal/shared/storage/blob/s3"
	"fileuploader-backend/internal/shared/telemetry"
	"fileuploader-backend/internal/workerproc"
)

const (
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.ReclaimQueueURL) == "" {
		log.Fatal("RECLAIM_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("build blob store: %v", err)
	}

	receiver, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.ReclaimQueueURL)
	if err != nil {
		log.Fatalf("build queue client: %v", err)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	log.Printf("reclaim worker started queue=%s concurrency=%d", cfg.ReclaimQueueURL, concurrency)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		received, err := receiver.Receive(ctx, 10)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break pollLoop
			}
			telemetry.Error("reclaim.receive_failed", map[string]any{"error": err.Error()})
			time.Sleep(2 * time.Second)
			continue
		}

		for _, msg := range received {
			sem <- struct{}{}
			wg.Add(1)
			go func(msg queue.Received) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(ctx, store, receiver, msg)
			}(msg)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout after %s; exiting with in-flight messages", shutdownTimeout)
	}
}

func handle(ctx context.Context, store blob.Store, receiver *queue.SQSClient, msg queue.Received) {
	err := workerproc.HandleMessage(ctx, store, msg.Body)
	if err == nil {
		if ackErr := receiver.Ack(ctx, msg.ReceiptHandle); ackErr != nil {
			telemetry.Warn("reclaim.ack_failed", map[string]any{"error": ackErr.Error()})
		}
		return
	}

	var reclaimErr workerproc.ErrReclaim
	if errors.As(err, &reclaimErr) {
		// Transient store failure: leave the message for redelivery.
		metrics.IncBlobReclaimFailed()
		telemetry.Warn("reclaim.delete_failed", map[string]any{
			"external_id": reclaimErr.ExternalID,
			"request_id":  reclaimErr.RequestID,
			"error":       err.Error(),
		})
		return
	}

	// Malformed payloads can never succeed; drop them after logging.
	telemetry.Error("reclaim.message_rejected", map[string]any{
		"body_len": workerproc.ComputeMeta(msg.Body).BodyLen,
		"body_sha": workerproc.ComputeMeta(msg.Body).BodySHA,
		"error":    err.Error(),
	})
	if ackErr := receiver.Ack(ctx, msg.ReceiptHandle); ackErr != nil {
		telemetry.Warn("reclaim.ack_failed", map[string]any{"error": ackErr.Error()})
	}
}

func buildStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	if cfg.BlobStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicBaseURL, cfg.SSEKMSKeyID)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return parsed
}
