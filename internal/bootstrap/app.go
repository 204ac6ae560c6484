package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cvbot-backend/internal/bot"
	"cvbot-backend/internal/channel"
	"cvbot-backend/internal/conversation"
	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/events"
	"cvbot-backend/internal/payments"
	"cvbot-backend/internal/queue"
	"cvbot-backend/internal/session"
	"cvbot-backend/internal/shared/config"
	"cvbot-backend/internal/shared/server"
	"cvbot-backend/internal/shared/server/middleware"
	"cvbot-backend/internal/shared/storage/db"
	"cvbot-backend/internal/shared/storage/object"
	localstore "cvbot-backend/internal/shared/storage/object/local"
	miniostore "cvbot-backend/internal/shared/storage/object/minio"
	s3store "cvbot-backend/internal/shared/storage/object/s3"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/templates"
	"cvbot-backend/internal/users"
	"cvbot-backend/internal/workerproc"
	"cvbot-backend/resume/render"
)

// App holds the wired process. Close releases everything Build opened.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Queue  queue.Client
	Events events.Publisher
	Sender *channel.Sender

	UsersService     *users.Service
	TemplatesService *templates.Service
	DocumentsService *documents.Service
	PaymentsService  *payments.Service
	Conversations    conversation.Store
	Machine          *conversation.Machine
	Sessions         *session.Resolver
	Bot              *bot.Service
	Deliverer        *workerproc.Deliverer
	WebhookHandler   *channel.Handler
	DocumentsHandler *documents.Handler

	closers []func() error
}

// Build connects backing services and wires the bot. In dev-like environments a missing
// database or Redis falls back to in-memory implementations.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	return build(ctx, cfg, db.DefaultServerOptions())
}

// BuildWorker wires the delivery consumer. It uses a smaller pool and never enqueues jobs.
func BuildWorker(ctx context.Context, cfg config.Config) (*App, error) {
	cfg.DeliveryQueue = ""
	return build(ctx, cfg, db.DefaultWorkerOptions())
}

func build(ctx context.Context, cfg config.Config, pool db.Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	app := &App{Config: cfg}

	var err error
	if app.DB, err = buildDB(ctx, cfg, pool); err != nil {
		return nil, err
	}
	if app.DB != nil {
		app.onClose(app.DB.Close)
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.Redis, err = buildRedis(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.Redis != nil {
		app.onClose(app.Redis.Close)
	}
	app.Events = buildEvents(cfg)
	app.onClose(app.Events.Close)
	if app.Queue, err = buildQueue(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}

	channelClient := channel.NewHTTPClient(ctx, cfg.Channel.Token)
	if cfg.Channel.APIURL != "" {
		app.Sender = channel.NewSender(channelClient, cfg.Channel.APIURL, cfg.Channel.SenderID)
	}

	buildServices(app, buildPhotoFetcher(cfg, channelClient))
	app.Router = server.NewRouter(server.RouterDeps{
		Webhook: app.WebhookHandler,
		API:     []server.Routes{app.DocumentsHandler},
		Ready:   app.Ready,
		WebhookRule: middleware.RateLimitRule{
			Rate:  cfg.Webhook.RatePerSec,
			Burst: cfg.Webhook.Burst,
		},
	})
	return app, nil
}

func buildServices(app *App, photos documents.PhotoFetcher) {
	cfg := app.Config

	var (
		userRepo     users.Repo
		templateRepo templates.Repo
		docRepo      documents.Repo
		payRepo      payments.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		templateRepo = &templates.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		payRepo = &payments.PGRepo{DB: app.DB}
		app.Conversations = &conversation.PGStore{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		templateRepo = templates.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		payRepo = payments.NewMemoryRepo()
		app.Conversations = conversation.NewMemoryStore()
	}

	app.UsersService = users.NewService(userRepo)
	app.TemplatesService = templates.NewService(templateRepo, cfg.Catalog.ColorCapable)

	docs := documents.NewService(docRepo, app.Store, render.NewRenderer())
	docs.Photos = photos
	docs.Contacts = app.UsersService
	docs.Events = app.Events
	docs.Delivery = app.Queue
	docs.BaseURL = cfg.PublicBaseURL
	app.DocumentsService = docs

	app.PaymentsService = payments.NewService(payRepo, payments.TrustingVerifier{}, app.UsersService, app.Events, payments.Merchant{
		Method:       cfg.Payment.Method,
		MerchantCode: cfg.Payment.MerchantCode,
		Currency:     cfg.Payment.Currency,
	})

	contact := conversation.DefaultContact
	if cfg.SupportEmail != "" {
		contact.SupportEmail = cfg.SupportEmail
	}
	if cfg.SupportPhone != "" {
		contact.SupportPhone = cfg.SupportPhone
	}
	if cfg.Payment.Method != "" {
		contact.PaymentMethod = cfg.Payment.Method
	}
	if cfg.Payment.MerchantCode != "" {
		contact.MerchantCode = cfg.Payment.MerchantCode
	}
	if cfg.Payment.Currency != "" {
		contact.Currency = cfg.Payment.Currency
	}

	app.Machine = conversation.NewMachine(app.Conversations, app.TemplatesService, docs, app.PaymentsService, contact)
	app.Sessions = session.NewResolver(app.UsersService, app.Conversations, app.Events)
	app.Bot = bot.NewService(app.Sessions, app.Machine)

	var dedupe channel.Dedupe
	if app.Redis != nil {
		dedupe = channel.NewRedisDedupe(app.Redis, cfg.Webhook.DedupeTTL)
	} else {
		dedupe = channel.NewMemoryDedupe(cfg.Webhook.DedupeTTL)
	}
	app.WebhookHandler = channel.NewHandler(app.Bot, dedupe)
	app.DocumentsHandler = documents.NewHandler(docs)

	if app.Sender != nil {
		app.Deliverer = &workerproc.Deliverer{Documents: docs, Messenger: app.Sender}
	}
}

// buildPhotoFetcher downloads inbound media with a plain client. The channel token is only
// attached for the API host and the configured media hosts.
func buildPhotoFetcher(cfg config.Config, channelClient *http.Client) *documents.HTTPPhotoFetcher {
	fetcher := documents.NewHTTPPhotoFetcher(&http.Client{Timeout: 15 * time.Second})
	if strings.TrimSpace(cfg.Channel.Token) == "" {
		return fetcher
	}
	hosts := append([]string(nil), cfg.Channel.MediaHosts...)
	if u, err := url.Parse(cfg.Channel.APIURL); err == nil && u.Hostname() != "" {
		hosts = append(hosts, u.Hostname())
	}
	if len(hosts) == 0 {
		return fetcher
	}
	return fetcher.WithCredentials(channelClient, hosts...)
}

func buildDB(ctx context.Context, cfg config.Config, pool db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(pool))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		if strings.TrimSpace(cfg.Minio.Endpoint) == "" {
			return nil, errors.New("OBJECT_STORE=minio requires MINIO_ENDPOINT")
		}
		return miniostore.New(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_dedupe", map[string]any{"error": err})
			return nil, nil
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func buildEvents(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
	if err != nil {
		telemetry.Warn("bootstrap.events_disabled", map[string]any{"error": err})
		return events.Nop{}
	}
	return pub
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.DeliveryQueue == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.DeliveryQueue)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Ready pings the database and Redis when they are in use.
func (a *App) Ready(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
