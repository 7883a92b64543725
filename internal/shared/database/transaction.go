package database

import (
	"context"
	"errors"

	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
	"gorm.io/gorm"
)

// WithTransaction runs fn in a plain GORM transaction bound to ctx.
// It is meant for reads that do not need a persistence context;
// writes go through an EntityManager so changes are flushed at commit.
//
// Usage:
//
//	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
//	    member, err := repo.FindByID(ctx, tx, id)
//	    if err != nil {
//	        return err // rollback
//	    }
//	    return nil // commit
//	})
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(*gorm.DB) error) error {
	if fn == nil {
		return errors.New("database: transaction function is nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := db.WithContext(ctx).Transaction(fn); err != nil {
		metrics.RecordTransaction(metrics.OutcomeRollback)
		return err
	}

	metrics.RecordTransaction(metrics.OutcomeCommit)
	return nil
}
