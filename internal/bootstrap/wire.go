package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbressan/identity-service/internal/application/account"
	"github.com/mbressan/identity-service/internal/config"
	cachestore "github.com/mbressan/identity-service/internal/infrastructure/cache"
	"github.com/mbressan/identity-service/internal/infrastructure/db/postgres"
	"github.com/mbressan/identity-service/internal/infrastructure/memory"
	"github.com/mbressan/identity-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/mbressan/identity-service/internal/infrastructure/redis"
	"github.com/mbressan/identity-service/internal/infrastructure/security"
	"github.com/mbressan/identity-service/internal/transport/http/handlers"
	"github.com/mbressan/identity-service/internal/transport/http/middleware"
	"github.com/mbressan/identity-service/internal/transport/http/response"
	"github.com/mbressan/identity-service/internal/transport/http/router"
)

// Server bundles the assembled HTTP server with its resource cleanup.
type Server struct {
	HTTP    *http.Server
	cleanup []func()
}

// Close releases held resources in reverse acquisition order.
func (s *Server) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// Build assembles the full dependency graph from configuration.
//
// Redis and RabbitMQ are optional at boot: when unreachable the service
// degrades (no identity cache, no mail events) instead of refusing to start.
// Postgres is mandatory.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Server, error) {
	srv := &Server{}

	db, err := config.NewDB(ctx, cfg.DBAddr)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	srv.cleanup = append(srv.cleanup, func() { _ = db.Close() })

	var users account.UserStore = postgres.NewUserStore(db)

	var limiter middleware.RateLimiter
	rdb := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, identity cache and rate limiting disabled")
		_ = rdb.Close()
	} else {
		srv.cleanup = append(srv.cleanup, func() { _ = rdb.Close() })
		users = cachestore.NewUserStore(users, redis.NewCache(rdb), cfg.IdentityCacheTTL, log)
		limiter = redis.NewFixedWindowLimiter(rdb)
	}

	var mail account.MailPublisher
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		if cfg.Env != "dev" {
			srv.Close()
			return nil, fmt.Errorf("bootstrap: rabbitmq: %w", err)
		}
		log.Warn().Err(err).Msg("rabbitmq unreachable, mail events dropped")
		mail = memory.NewNoopPublisher()
	} else {
		srv.cleanup = append(srv.cleanup, func() { _ = pub.Close() })
		mail = pub
	}

	tokens := security.NewTokenService(security.Secrets{
		MailConfirm: cfg.MailTokenSecret,
		Access:      cfg.AccessTokenSecret,
		Refresh:     cfg.RefreshTokenSecret,
	}, cfg.TokenIssuer)

	svc := account.NewService(users, security.NewBcryptHasher(bcrypt.DefaultCost), tokens, mail, account.Config{
		AccessTokenTTL:   cfg.AccessTokenTTL,
		RefreshTokenTTL:  cfg.RefreshTokenTTL,
		MailConfirmTTL:   cfg.MailConfirmTTL,
		PasswordResetTTL: cfg.PasswordResetTTL,
		ConfirmBaseURL:   cfg.ConfirmBaseURL,
		ResetBaseURL:     cfg.ResetBaseURL,
	})

	handler := router.New(router.Deps{
		Account: handlers.NewAccount(svc, log),
		Health:  handlers.NewHealth(db),
		Guard:   middleware.Guard(tokens, users, response.WriteError),
		Limiter: limiter,
	})

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return srv, nil
}
