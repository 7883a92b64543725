package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/member"
	"github.com/changhyeonkim/hello-orm/internal/persistence"
	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
)

// persistenceUnit is the unit this program is bound to
const persistenceUnit = "hello"

func main() {
	env := flag.String("env", "local", "Environment (local|dev|production)")
	flag.Parse()

	logger.Setup(*env)

	if err := run(*env); err != nil {
		slog.Error("회원 이름 변경 실패", "error", err)
		os.Exit(1)
	}
}

func run(env string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	emf, err := persistence.CreateEntityManagerFactory(persistenceUnit, cfg)
	if err != nil {
		return fmt.Errorf("EntityManagerFactory 생성 실패: %w", err)
	}

	slog.Info("회원 이름 변경 시작",
		"unit", emf.Unit(),
		"member_id", cfg.Update.MemberID,
		"name", cfg.Update.MemberName,
	)

	// RunUpdate closes emf on every path
	if err := member.RunUpdate(ctx, emf, cfg.Update.MemberID, cfg.Update.MemberName); err != nil {
		return err
	}

	slog.Info("회원 이름 변경 완료", "member_id", cfg.Update.MemberID)
	return nil
}
