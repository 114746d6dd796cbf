package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Core state ----
	var seed []model.Reservation
	if cfg.SeedDemo {
		seed = repository.DemoReservations()
	}
	store := repository.NewStore(repository.DefaultSettings(), seed)

	// ---- Users ----
	users := openUserStore(ctx, cfg)
	if cfg.SeedDemo {
		if err := repository.SeedDemoUsers(ctx, users, cfg.BcryptCost); err != nil {
			log.Fatalf("seed users: %v", err)
		}
	}

	// ---- Notifications ----
	var notifier queue.Notifier = queue.NewLogNotifier(nil)
	if cfg.NotifyAMQP {
		notifier = queue.MultiNotifier{notifier, queue.NewAMQPNotifier(cfg.AMQPURL)}
		go func() {
			if err := queue.StartReservationConsumer(ctx, cfg.AMQPURL, cfg.ConsumerLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("consumer: stopped: %v", err)
			}
		}()
	}

	// ---- Service ----
	opts := []service.Option{
		service.WithAssignmentPolicy(service.ParseAssignmentPolicy(cfg.TableAssignment)),
	}
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("config: RESTAURANT_TZ: %v", err)
		}
		opts = append(opts, service.WithLocation(loc))
	}
	svc := service.NewReservationService(store, notifier, opts...)

	// ---- Redis (optional) ----
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	if inv := middleware.CacheInvalidator(cacheCfg, rdb); inv != nil {
		defer svc.Subscribe(inv)()
	}

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	deps := router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     cacheCfg,
		RateLimit: config.LoadRateLimitConfig(),
	}
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), deps)
	router.RegisterReservations(e, handler.NewReservationHandler(svc), deps)
	router.RegisterAdmin(e, handler.NewAdminHandler(svc), deps)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tables=%s)", addr, cfg.Env, cfg.TableAssignment)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openUserStore returns the MySQL user store when DB_HOST is set and
// an in-memory one otherwise.
func openUserStore(ctx context.Context, cfg config.Config) repository.UserStore {
	if !cfg.UseMySQL() {
		return repository.NewMemoryUserRepo()
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	repo := repository.NewUserRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("db: %v", err)
	}
	return repo
}
