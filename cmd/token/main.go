package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/changhyeonkim/hello-orm/internal/shared/token"
)

func main() {
	env := flag.String("env", "local", "Environment (local|dev|production)")
	subject := flag.String("subject", "", "Operator name stored in the token subject")
	flag.Parse()

	// stdout carries only the token
	slog.SetDefault(logger.New(*env, os.Stderr))

	accessToken, err := issue(*env, *subject)
	if err != nil {
		slog.Error("토큰 발급 실패", "error", err)
		os.Exit(1)
	}

	fmt.Println(accessToken)
}

func issue(env, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("-subject 값이 필요합니다")
	}

	cfg, err := config.Load(env)
	if err != nil {
		return "", fmt.Errorf("설정 로드 실패: %w", err)
	}
	if err := cfg.ValidateJWT(); err != nil {
		return "", err
	}

	return token.NewJWTManager(cfg).GenerateAccessToken(subject)
}
