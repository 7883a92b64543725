package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/model"

	"gorm.io/gorm"
)

// seedMembers is the data the update procedure expects to find
var seedMembers = []model.Member{
	{ID: 1, Name: "HelloA"},
}

// Migrate executes database migration based on configuration
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.IsAutoMigrate {
		slog.Info("⏭️  데이터베이스 마이그레이션 비활성화됨",
			"auto_migrate", false, "env", cfg.App.Env,
		)
		return nil
	}

	slog.Warn("🔧 데이터베이스 마이그레이션 시작 - 모든 테이블이 삭제되고 재생성됩니다!",
		"auto_migrate", true, "env", cfg.App.Env,
	)

	// Safety check: prevent accidental data loss in production
	if cfg.IsProduction() {
		return fmt.Errorf("🚨 PRODUCTION 환경에서는 DB_AUTO_MIGRATE=true를 사용할 수 없습니다! 데이터 손실 방지를 위해 차단됨")
	}

	// Step 1: Drop all tables
	slog.Info("🗑️  기존 테이블 삭제 중...")

	// Order matters: drop in reverse dependency order (FK constraints)
	models := migrationModels()
	for i := len(models) - 1; i >= 0; i-- {
		m := models[i]
		if !db.Migrator().HasTable(m) {
			continue
		}
		if err := db.Migrator().DropTable(m); err != nil {
			slog.Debug("테이블 삭제 실패", "model", fmt.Sprintf("%T", m), "error", err)
		} else {
			slog.Debug("테이블 삭제 성공", "model", fmt.Sprintf("%T", m))
		}
	}

	// Step 2: Create tables
	slog.Info("📦 새 테이블 생성 중...")
	if err := runAutoMigrate(db, models); err != nil {
		return fmt.Errorf("테이블 생성 실패: %w", err)
	}

	slog.Info("✅ 마이그레이션 완료!")
	return nil
}

// migrationModels lists models in dependency order (FK 참조 순서)
func migrationModels() []interface{} {
	return []interface{}{
		// Independent tables (no foreign keys)
		&model.Member{},
	}
}

// runAutoMigrate creates tables based on model definitions
func runAutoMigrate(db *gorm.DB, models []interface{}) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("%T 마이그레이션 실패: %w", m, err)
		}
		slog.Debug("테이블 생성됨", "model", fmt.Sprintf("%T", m))
	}

	return nil
}

// Seed inserts the default members that are missing. Existing rows are left untouched.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.IsSeed {
		return nil
	}

	for _, seed := range seedMembers {
		var existing model.Member
		err := db.Where("id = ?", seed.ID).Take(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("회원 조회 실패 id=%d: %w", seed.ID, err)
		}

		member := seed
		if err := db.Create(&member).Error; err != nil {
			return fmt.Errorf("회원 생성 실패 id=%d: %w", seed.ID, err)
		}
		slog.Info("🌱 기본 회원 생성", "id", member.ID, "name", member.Name)
	}

	return nil
}
