package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/changhyeonkim/hello-orm/internal/bootstrap"
	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/persistence"
	"github.com/changhyeonkim/hello-orm/internal/router"
	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/changhyeonkim/hello-orm/internal/shared/token"
	"github.com/changhyeonkim/hello-orm/internal/shared/validator"
)

func main() {
	env := parseFlags()

	logger.Setup(env)
	slog.Info("서버 초기화 시작", "env", env)

	if err := run(env); err != nil {
		slog.Error("서버 초기화 실패", "error", err)
		os.Exit(1)
	}

	slog.Info("서버 종료 완료", "env", env)
}

// parseFlags parses command line arguments
func parseFlags() string {
	env := flag.String("env", "local", "Environment (local|dev|production)")
	flag.Parse()
	return *env
}

func run(env string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	if err := cfg.ValidateJWT(); err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	slog.Info("환경 변수 로드 성공")

	emf, err := persistence.CreateEntityManagerFactory(cfg.Persistence.Unit, cfg)
	if err != nil {
		return fmt.Errorf("EntityManagerFactory 생성 실패: %w", err)
	}
	defer func() {
		if err := emf.Close(); err != nil {
			slog.Error("EntityManagerFactory 종료 실패", "error", err)
		}
	}()

	srv, err := setupServer(cfg, emf)
	if err != nil {
		return err
	}

	return startWithGracefulShutdown(ctx, srv, cfg.Server.GracefulTimeout)
}

// setupServer wires the engine, validators and routes
func setupServer(cfg *config.Config, emf *persistence.EntityManagerFactory) (*bootstrap.Server, error) {
	boot := bootstrap.NewBootstrap(cfg)
	ginEngine := boot.SetupEngine()

	if err := validator.RegisterAll(); err != nil {
		return nil, fmt.Errorf("공통 Validator 등록 실패: %w", err)
	}

	router.Setup(ginEngine, cfg, emf, token.NewJWTManager(cfg))

	slog.Info("서버 설정 완료",
		"env", cfg.App.Env,
		"unit", emf.Unit(),
	)

	return bootstrap.New(cfg, ginEngine), nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func startWithGracefulShutdown(ctx context.Context, srv *bootstrap.Server, gracefulTimeout time.Duration) error {
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("서버 오류: %w", err)
		}
		return nil

	case sig := <-quit:
		slog.Info("종료 신호 수신됨", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, gracefulTimeout)
		defer cancel()

		slog.Info("서버 종료 중...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("서버 강제 종료: %w", err)
		}
		return nil
	}
}
