// Package server wires configuration, storage, the payment provider and the
// notification pipeline together and runs the HTTP API, the gRPC health
// endpoint and the notification workers until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/dmitrijs2005/travelapp/internal/awsx"
	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/chapa"
	"github.com/dmitrijs2005/travelapp/internal/server/config"
	"github.com/dmitrijs2005/travelapp/internal/server/httpapi"
	"github.com/dmitrijs2005/travelapp/internal/server/mailer"
	"github.com/dmitrijs2005/travelapp/internal/server/notifications"
	"github.com/dmitrijs2005/travelapp/internal/server/queue"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/dmitrijs2005/travelapp/internal/server/storage"

	gs "github.com/dmitrijs2005/travelapp/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const memoryQueueCapacity = 1024

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services httpapi.Services
	worker   *notifications.Worker
}

// OpenDB opens the pgx pool and applies pending migrations.
func OpenDB(ctx context.Context, c *config.Config, m repomanager.RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, nil
}

func newQueue(c *config.Config, awsCfg aws.Config) (queue.Queue, error) {
	switch c.QueueBackend {
	case config.QueueBackendSQS:
		return queue.NewSQSQueue(awsCfg, c.SQSQueueURL, c.SQSBaseEndpoint), nil
	case config.QueueBackendMemory:
		return queue.NewMemoryQueue(memoryQueueCapacity), nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", c.QueueBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm := repomanager.NewPostgresRepositoryManager()

	db, err := OpenDB(ctx, c, rm)
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsx.LoadConfig(ctx, c.AWSRegion, c.AWSAccessKeyID, c.AWSSecretAccessKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	q, err := newQueue(c, awsCfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sender := mailer.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.MailFrom)
	dispatcher := notifications.NewDispatcher(q, logger)
	photos := storage.NewS3Storage(awsCfg, c.S3Bucket, c.S3BaseEndpoint)
	provider := chapa.NewClient(c.ChapaBaseURL, c.ChapaSecretKey, c.ChapaTimeout)

	svc := httpapi.Services{
		Accounts: services.NewAccountService(db, rm, c),
		Listings: services.NewListingService(db, rm, photos),
		Bookings: services.NewBookingService(db, rm, dispatcher, c.Currency, logger),
		Payments: services.NewPaymentService(db, rm, provider, c, logger),
		Reviews:  services.NewReviewService(db, rm),
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		services: svc,
		worker:   notifications.NewWorker(q, sender, logger, c.NotificationWorkers),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.services, []byte(app.config.SecretKey), app.logger)
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCAddr, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or a server fails, then
// waits for every component to stop and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.worker.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
