package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/changhyeonkim/hello-orm/internal/shared/database"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// EntityManagerFactory owns the connection pool of one persistence unit.
// It is safe for concurrent use; the managers it creates are not.
type EntityManagerFactory struct {
	unit    string
	db      *gorm.DB
	release func() error
	schemas sync.Map

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// CreateEntityManagerFactory opens the database configured for unit
func CreateEntityManagerFactory(unit string, cfg *config.Config) (*EntityManagerFactory, error) {
	if unit != cfg.Persistence.Unit {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersistenceUnit, unit)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("persistence unit %q: %w", unit, err)
	}

	slog.Info("EntityManagerFactory 생성", "unit", unit, "driver", cfg.Database.Driver)
	return newFactory(unit, db.DB, db.Close), nil
}

// NewEntityManagerFactory wraps an open GORM handle. Closing the factory closes the handle.
func NewEntityManagerFactory(unit string, db *gorm.DB) *EntityManagerFactory {
	return newFactory(unit, db, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
}

func newFactory(unit string, db *gorm.DB, release func() error) *EntityManagerFactory {
	return &EntityManagerFactory{
		unit:    unit,
		db:      db,
		release: release,
	}
}

// CreateEntityManager opens a new persistence context.
// Managers created from a closed factory fail every operation with ErrFactoryClosed.
func (f *EntityManagerFactory) CreateEntityManager() *EntityManager {
	return &EntityManager{
		factory: f,
		pc:      newPersistenceContext(),
	}
}

func (f *EntityManagerFactory) Unit() string {
	return f.unit
}

// DB exposes the underlying handle for read-only queries outside a persistence context
func (f *EntityManagerFactory) DB() *gorm.DB {
	return f.db
}

func (f *EntityManagerFactory) IsOpen() bool {
	return !f.closed.Load()
}

// Close releases the connection pool. Only the first call does any work.
func (f *EntityManagerFactory) Close() error {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.closeErr = f.release()
		slog.Debug("EntityManagerFactory 종료", "unit", f.unit, "error", f.closeErr)
	})
	return f.closeErr
}

// HealthCheck pings the database behind the unit
func (f *EntityManagerFactory) HealthCheck(ctx context.Context) error {
	if !f.IsOpen() {
		return ErrFactoryClosed
	}

	sqlDB, err := f.db.DB()
	if err != nil {
		return fmt.Errorf("데이터베이스 인스턴스 가져오기 실패: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("데이터베이스 상태 확인 실패: %w", err)
	}
	return nil
}

func (f *EntityManagerFactory) schemaOf(entity any) (*schema.Schema, error) {
	s, err := schema.Parse(entity, &f.schemas, f.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %v", ErrNotEntity, entity, err)
	}
	if s.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("%w: %T has no primary key", ErrNotEntity, entity)
	}
	return s, nil
}
