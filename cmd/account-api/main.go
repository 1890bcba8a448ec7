package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/internal/config"
	"github.com/vasapolrittideah/account-api/internal/handler"
	"github.com/vasapolrittideah/account-api/internal/observability"
	"github.com/vasapolrittideah/account-api/internal/repository"
	"github.com/vasapolrittideah/account-api/internal/usecase"
	"github.com/vasapolrittideah/account-api/shared/auth"
	"github.com/vasapolrittideah/account-api/shared/clock"
	"github.com/vasapolrittideah/account-api/shared/mailer"
	sharedvalidator "github.com/vasapolrittideah/account-api/shared/validator"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.New(&logger)

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(startupCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)
	clk := clock.New()

	userRepo := repository.NewUserMongoRepository(startupCtx, &logger, db)
	tokenRepo := repository.NewOneTimeTokenMongoRepository(startupCtx, &logger, db, clk)
	revocations := repository.NewRevokedTokenMongoRepository(startupCtx, &logger, db, clk)

	jwtAuth := auth.NewJWTAuthenticator(
		cfg.Token.Secret,
		cfg.Token.Issuer,
		cfg.Token.Audience,
		cfg.Token.SessionTTL,
		clk,
	)

	userMail := mailer.NewUserMail(mailer.NewMailer(&logger), &logger, cfg.ClientURL)

	authUsecase := usecase.NewAuthUsecase(userRepo, tokenRepo, revocations, jwtAuth, userMail, clk, cfg)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, tokenRepo, userMail, cfg)
	verificationUsecase := usecase.NewVerificationUsecase(userRepo, tokenRepo, userMail)

	validate, trans := sharedvalidator.New()

	observability.MustRegister()

	router := handler.NewRouter(
		&logger,
		handler.NewAuthHandler(authUsecase, passwordResetUsecase, validate, trans, &logger),
		handler.NewUserHandler(verificationUsecase, &logger),
		authUsecase,
	)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("address", cfg.ServerAddress).Msg("starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down HTTP server")
	}

	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
	}
}
