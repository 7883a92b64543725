package persistence

import (
	"context"
	"fmt"

	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
	"gorm.io/gorm"
)

// EntityTransaction is the resource-local transaction of an EntityManager
type EntityTransaction struct {
	em     *EntityManager
	tx     *gorm.DB
	ctx    context.Context
	active bool
}

// Begin starts a database transaction bound to ctx
func (t *EntityTransaction) Begin(ctx context.Context) error {
	if err := t.em.checkOpen(); err != nil {
		return err
	}
	if t.active {
		return ErrTransactionActive
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx := t.em.factory.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("트랜잭션 시작 실패: %w", tx.Error)
	}

	t.tx = tx
	t.ctx = ctx
	t.active = true
	logger.FromContext(ctx).Debug("트랜잭션 시작", "unit", t.em.factory.unit)
	return nil
}

// Commit flushes pending changes and commits.
// When the flush fails the transaction is rolled back before the error is returned.
func (t *EntityTransaction) Commit() error {
	if !t.active {
		return ErrTransactionNotActive
	}

	log := logger.FromContext(t.ctx)

	if err := t.em.flush(t.ctx, t.tx); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			log.Error("flush 실패 후 롤백 실패", "error", rbErr)
		}
		return fmt.Errorf("커밋 실패 (롤백됨): %w", err)
	}

	if err := t.tx.Commit().Error; err != nil {
		t.finish()
		t.em.pc.reset()
		metrics.RecordTransaction(metrics.OutcomeRollback)
		return fmt.Errorf("커밋 실패: %w", err)
	}

	t.finish()
	metrics.RecordTransaction(metrics.OutcomeCommit)
	log.Debug("트랜잭션 커밋", "unit", t.em.factory.unit)
	return nil
}

// Rollback discards the transaction and detaches every managed entity
func (t *EntityTransaction) Rollback() error {
	if !t.active {
		return ErrTransactionNotActive
	}

	log := logger.FromContext(t.ctx)
	err := t.tx.Rollback().Error

	t.finish()
	t.em.pc.reset()
	metrics.RecordTransaction(metrics.OutcomeRollback)

	if err != nil {
		return fmt.Errorf("롤백 실패: %w", err)
	}
	log.Debug("트랜잭션 롤백", "unit", t.em.factory.unit)
	return nil
}

func (t *EntityTransaction) IsActive() bool {
	return t.active
}

func (t *EntityTransaction) finish() {
	t.active = false
	t.tx = nil
}
