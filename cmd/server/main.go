package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	membershipapi "github.com/hausbase/membership/api/echo"
	redisstore "github.com/hausbase/membership/cache/redis"
	"github.com/hausbase/membership/config"
	"github.com/hausbase/membership/internal/auth"
	"github.com/hausbase/membership/internal/social"
	"github.com/hausbase/membership/mongodb"
	"github.com/hausbase/membership/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if parseErr != nil {
		log.Warn().Str("configured_log_level", cfg.LogLevel).Msg("Invalid LOG_LEVEL configured, defaulting to 'info'")
	}

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("mongo_db_name", cfg.MongoDBName).
		Str("redis_addr", cfg.RedisAddr).
		Msg("Starting membership server")

	ctx := context.Background()

	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	db := mongoClient.Database(cfg.MongoDBName)

	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	refreshTTL := time.Duration(cfg.RefreshTokenTTLHour) * time.Hour
	refreshStore := redisstore.NewRefreshTokenStore(redisClient, cfg.RedisKeyPrefix, refreshTTL)

	tokenService := services.NewTokenService(
		cfg.JWTIssuer,
		cfg.JWTSecretKey,
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute,
		refreshTTL,
	)

	providerTimeout := time.Duration(cfg.ProviderTimeoutSec) * time.Second
	resolver := services.NewSocialIdentityResolver(userRepo,
		social.NewKakaoProvider(providerTimeout),
		social.NewNaverProvider(providerTimeout),
	)

	hasher := auth.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	sessionService := services.NewSessionService(userRepo, hasher, tokenService, refreshStore, resolver)
	guestService := services.NewGuestService(userRepo, tokenService, time.Duration(cfg.GuestTokenTTLMin)*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	api := membershipapi.NewMembershipAPI(sessionService, guestService, tokenService)
	api.RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	log.Info().Str("signal", receivedSignal.String()).Msg("Shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := refreshStore.Close(); err != nil {
		log.Error().Err(err).Msg("Redis close error")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("MongoDB disconnect error")
	}

	log.Info().Msg("Server gracefully stopped")
}
