package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk/internal/catalog"
	"orderdesk/internal/config"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/draft"
	"orderdesk/internal/httpapi"
	"orderdesk/internal/invoice"
	"orderdesk/internal/logger"
	"orderdesk/internal/metrics"
	"orderdesk/internal/middleware"
	"orderdesk/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

var (
	newClientFunc   = dataapi.NewClient
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	api, err := newClientFunc(cfg.DataAPIURL, cfg.DataAPIToken, cfg.DataAPITimeout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newServer(cfg, api)
	go a.drafts.Run(ctx, sweepInterval)
	go a.limiter.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.L().Info("order desk listening", zap.String("addr", srv.Addr), zap.String("data_api", cfg.DataAPIURL))
	return startServerFunc(ctx, srv)
}

type app struct {
	handler http.Handler
	drafts  *draft.Registry
	limiter *middleware.RateLimiter
}

// newServer wires the services behind the HTTP handler chain.
func newServer(cfg *config.Config, api dataapi.Client) *app {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	drafts := draft.NewRegistry(
		order.NewService(api),
		api,
		catalog.NewLimiter(cfg.SearchRateLimit),
		draft.Options{TTL: cfg.DraftTTL, DefaultTaxRate: &cfg.DefaultTaxRate},
	)

	var sender invoice.Sender = invoice.LogSender{}
	if cfg.InvoiceWebhookURL != "" {
		sender = invoice.NewWebhookSender(cfg.InvoiceWebhookURL, cfg.InvoiceWebhookToken)
	}

	router := httpapi.NewRouter(
		httpapi.NewHandler(drafts, api, invoice.NewDispatcher(sender), metrics.Default()),
		cfg.CORSOrigins,
	)

	limiter := middleware.NewRateLimiter()

	// Outermost first: request id, then access log, then rate limiting.
	var h http.Handler = router
	h = limiter.Middleware(h)
	h = middleware.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)

	return &app{handler: h, drafts: drafts, limiter: limiter}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
