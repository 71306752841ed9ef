package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"quiz-admin/internal/app"
	"quiz-admin/internal/backend"
	"quiz-admin/internal/config"
	"quiz-admin/internal/feedback"
	"quiz-admin/internal/infra/memory"
	pgstore "quiz-admin/internal/infra/postgres"
	redisstore "quiz-admin/internal/infra/redis"
	"quiz-admin/internal/logger"
)

// deps holds everything a command needs, built from config and flags.
type deps struct {
	cfg      config.Config
	log      *zap.Logger
	client   *backend.Client
	feedback *feedback.Channel
	drafts   app.DraftRepository
	closers  []func()
}

func loadDeps(ctx context.Context, opts *options) (*deps, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.backendURL != "" {
		cfg.Backend.URL = opts.backendURL
	}

	log, err := logger.New(cfg.Log.Env)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, log: log}
	d.closers = append(d.closers, func() { _ = log.Sync() })

	httpClient := &http.Client{Timeout: config.Duration(cfg.Backend.Timeout, 10*time.Second)}
	d.client = backend.NewClient(cfg.Backend.URL, httpClient, log.Named("backend"))
	d.feedback = feedback.NewChannel(config.Duration(cfg.Feedback.TTL, feedback.DefaultTTL))

	if err := d.openDrafts(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// openDrafts picks Redis, then Postgres, then memory.
func (d *deps) openDrafts(ctx context.Context) error {
	ttl := config.Duration(d.cfg.Drafts.TTL, 7*24*time.Hour)

	switch {
	case d.cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     d.cfg.Redis.Addr,
			Password: d.cfg.Redis.Password,
			DB:       d.cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = client.Close() })
		d.drafts = redisstore.NewDraftStore(client, ttl)
		d.log.Debug("drafts stored in redis", zap.String("addr", d.cfg.Redis.Addr))

	case d.cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, d.cfg, d.log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, d.cfg.Postgres.URL)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, pool.Close)
		d.drafts = pgstore.NewDraftStore(pool, ttl)
		d.log.Debug("drafts stored in postgres")

	default:
		d.drafts = memory.NewDraftStore()
	}
	return nil
}

func (d *deps) redirectDelay() time.Duration {
	return config.Duration(d.cfg.Launch.RedirectDelay, app.DefaultRedirectDelay)
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}
