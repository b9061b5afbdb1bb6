package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/wickandflame/wickandflame/modules/billing"
	"github.com/wickandflame/wickandflame/modules/workshop"
	"github.com/wickandflame/wickandflame/pkg/config"
	"github.com/wickandflame/wickandflame/pkg/email"
	"github.com/wickandflame/wickandflame/pkg/httpserver"
	"github.com/wickandflame/wickandflame/pkg/logger"
	"github.com/wickandflame/wickandflame/pkg/pg"
	"github.com/wickandflame/wickandflame/pkg/subscription"
)

type appConfig struct {
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	CatalogPath string `env:"PLAN_CATALOG_PATH"` // optional YAML override for the built-in catalog

	Log     logger.Config
	DB      pg.Config
	HTTP    httpserver.Config
	Email   email.Config
	Stripe  subscription.StripeConfig
	Prices  subscription.PriceConfig
	Billing subscription.ServiceConfig
	Labels  workshop.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	catalog := subscription.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = subscription.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			return err
		}
	}

	prices, err := subscription.NewPriceTable(cfg.Prices)
	if err != nil {
		return err
	}

	var mailer email.Sender
	if cfg.Email.PostmarkServerToken != "" {
		mailer, err = email.NewPostmarkSender(cfg.Email)
		if err != nil {
			return err
		}
	} else {
		log.WarnContext(ctx, "postmark not configured, writing emails to ./tmp/emails")
		mailer = email.NewDevSender("./tmp/emails")
	}

	subStore := subscription.NewPostgresStore(pool)
	shopStore := workshop.NewPostgresStore(pool)
	provider := subscription.NewStripeProvider(cfg.Stripe)

	ents := subscription.NewEntitlements(catalog, subStore, subStore, subStore, log)
	svc := subscription.NewService(catalog, prices, provider, subStore, subStore, mailer, cfg.Billing, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool)))

	r.Group(func(r chi.Router) {
		r.Use(userIDHeader)
		r.Mount("/billing", billing.NewModule(svc, ents).Handle())
		r.Mount("/workshop", workshop.NewModule(shopStore, subStore, ents, cfg.Labels).Handle())
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// userIDHeader trusts the X-User-ID header set by the authenticating proxy
// in front of this service. Requests without it still reach the handlers,
// which answer 401 themselves. The Stripe webhook route ignores the header
// entirely and relies on signature verification instead.
func userIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(subscription.WithUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}
