package main

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

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"cvbot-backend/internal/bootstrap"
	"cvbot-backend/internal/shared/config"
	"cvbot-backend/internal/shared/metrics"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 120
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

// jobHandler delivers one queue payload.
type jobHandler interface {
	HandleMessage(ctx context.Context, body string) error
}

func main() {
	cfg := config.Load()
	telemetry.Configure(cfg.Env)
	defer telemetry.Sync()

	if cfg.DeliveryQueue == "" {
		log.Fatal("DELIVERY_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("WORKER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	region := cfg.AWSRegion
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.BuildWorker(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()
	if app.Deliverer == nil {
		log.Fatal("CHANNEL_API_URL is required")
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":       cfg.DeliveryQueue,
		"concurrency": concurrency,
		"visibility":  visibilitySeconds,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(cfg.DeliveryQueue),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Warn("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, cfg.DeliveryQueue, app.Deliverer, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleMessage delivers one job. Successful and undeliverable jobs are deleted; failures
// that may succeed later stay on the queue until the visibility timeout returns them.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, handler jobHandler, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	err := handler.HandleMessage(ctx, body)
	if err == nil {
		if deleteMessage(ctx, client, queueURL, msg, "") {
			telemetry.Info("worker.delivery.completed", baseFields(msg, ""))
		}
		return
	}

	var (
		empty   workerproc.ErrEmptyBody
		decode  workerproc.ErrDecode
		invalid workerproc.ErrInvalidJob
		process workerproc.ErrProcess
	)
	switch {
	case errors.As(err, &empty):
		fields := baseFields(msg, "")
		fields["body_len"] = 0
		telemetry.Error("worker.delivery.empty_body", fields)
		drop(ctx, client, queueURL, msg, "")
	case errors.As(err, &decode):
		fields := baseFields(msg, "")
		fields["body_len"] = decode.Meta.BodyLen
		fields["body_sha256"] = decode.Meta.BodySHA
		fields["error"] = err.Error()
		telemetry.Error("worker.delivery.decode_failed", fields)
		drop(ctx, client, queueURL, msg, "")
	case errors.As(err, &invalid):
		fields := baseFields(msg, invalid.DocumentID)
		fields["body_sha256"] = invalid.Meta.BodySHA
		fields["error"] = err.Error()
		telemetry.Error("worker.delivery.invalid_job", fields)
		drop(ctx, client, queueURL, msg, invalid.DocumentID)
	case errors.As(err, &process):
		fields := baseFields(msg, process.DocumentID)
		fields["error"] = err.Error()
		telemetry.Error("worker.delivery.failed", fields)
	default:
		fields := baseFields(msg, "")
		fields["error"] = err.Error()
		telemetry.Error("worker.delivery.failed", fields)
	}
}

func drop(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, documentID string) {
	if deleteMessage(ctx, client, queueURL, msg, documentID) {
		metrics.IncDeliveryDropped()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, documentID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, documentID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.delivery.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, documentID)
		fields["error"] = err.Error()
		telemetry.Error("worker.delivery.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, documentID string) map[string]any {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if documentID != "" {
		fields["document_id"] = documentID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
