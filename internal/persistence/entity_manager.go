package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// EntityManager tracks the entities of one unit of work.
// Changes made to managed entities are written when the transaction commits.
// An EntityManager must not be used from more than one goroutine.
type EntityManager struct {
	factory *EntityManagerFactory
	pc      *persistenceContext
	tx      *EntityTransaction
	closed  bool
}

// Find loads the entity of type T identified by id.
// Within one EntityManager the same identifier always yields the same pointer.
func Find[T any](ctx context.Context, em *EntityManager, id any) (*T, error) {
	if err := em.checkOpen(); err != nil {
		return nil, err
	}

	entity := new(T)
	s, err := em.describe(entity)
	if err != nil {
		return nil, err
	}

	id = plainIdentifier(id)
	key := entityKey(s, id)
	if me, ok := em.pc.lookup(key); ok {
		if me.state == stateRemoved {
			return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, key)
		}
		found, ok := me.entity.(*T)
		if !ok {
			return nil, fmt.Errorf("%w: %s is managed as %T", ErrNotEntity, key, me.entity)
		}
		return found, nil
	}

	err = em.session(ctx).Where(byIdentifier(s, id)).Take(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, key)
		}
		return nil, fmt.Errorf("find %s: %w", key, err)
	}

	em.pc.manage(ctx, key, entity, s)
	logger.FromContext(ctx).Debug("엔티티 조회", "key", key)
	return entity, nil
}

// Persist makes a new entity managed; it is inserted on flush
func (em *EntityManager) Persist(ctx context.Context, entity any) error {
	if err := em.checkOpen(); err != nil {
		return err
	}

	s, err := em.describe(entity)
	if err != nil {
		return err
	}

	if me, ok := em.pc.entry(entity); ok {
		if me.state == stateRemoved {
			me.state = stateManaged
		}
		return nil
	}

	me := &managedEntity{entity: entity, schema: s, state: stateNew}
	me.key = entityKey(s, me.identifier(ctx))
	if _, ok := em.pc.lookup(me.key); ok {
		return fmt.Errorf("%w: %s", ErrEntityExists, me.key)
	}

	em.pc.add(me)
	return nil
}

// Remove schedules a managed entity for deletion on flush
func (em *EntityManager) Remove(ctx context.Context, entity any) error {
	if err := em.checkOpen(); err != nil {
		return err
	}

	me, ok := em.pc.entry(entity)
	if !ok {
		return fmt.Errorf("%w: %T", ErrEntityNotManaged, entity)
	}

	switch me.state {
	case stateNew:
		em.pc.forget(me)
	default:
		me.state = stateRemoved
	}
	return nil
}

// Contains reports whether entity is managed by this EntityManager
func (em *EntityManager) Contains(entity any) bool {
	me, ok := em.pc.entry(entity)
	return ok && me.state != stateRemoved
}

// Clear detaches every managed entity. Pending changes are discarded.
func (em *EntityManager) Clear() {
	em.pc.reset()
}

// Flush writes pending changes inside the active transaction
func (em *EntityManager) Flush(ctx context.Context) error {
	if err := em.checkOpen(); err != nil {
		return err
	}
	if em.tx == nil || !em.tx.active {
		return ErrTransactionNotActive
	}
	return em.flush(ctx, em.tx.tx)
}

// Transaction returns the resource-local transaction of this EntityManager
func (em *EntityManager) Transaction() *EntityTransaction {
	if em.tx == nil {
		em.tx = &EntityTransaction{em: em}
	}
	return em.tx
}

func (em *EntityManager) IsOpen() bool {
	return !em.closed
}

// Close rolls back an active transaction and detaches all entities.
// Calling Close more than once has no effect.
func (em *EntityManager) Close() error {
	if em.closed {
		return nil
	}
	em.closed = true

	var err error
	if em.tx != nil && em.tx.active {
		logger.FromContext(em.tx.ctx).Warn("종료 시 활성 트랜잭션 롤백", "unit", em.factory.unit)
		err = em.tx.Rollback()
	}
	em.pc.reset()
	return err
}

func (em *EntityManager) checkOpen() error {
	if em.closed {
		return ErrEntityManagerClosed
	}
	if !em.factory.IsOpen() {
		return ErrFactoryClosed
	}
	return nil
}

func (em *EntityManager) describe(entity any) (*schema.Schema, error) {
	rv := reflect.ValueOf(entity)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotEntity, entity)
	}
	return em.factory.schemaOf(entity)
}

// session returns the handle statements run on: the open transaction when there is one
func (em *EntityManager) session(ctx context.Context) *gorm.DB {
	if em.tx != nil && em.tx.active {
		return em.tx.tx.WithContext(ctx)
	}
	return em.factory.db.WithContext(ctx)
}

// flush emits inserts, column-level updates and deletes in the order entities became managed
func (em *EntityManager) flush(ctx context.Context, db *gorm.DB) error {
	log := logger.FromContext(ctx)

	for _, me := range em.pc.entries() {
		switch me.state {
		case stateNew:
			if err := db.WithContext(ctx).Create(me.entity).Error; err != nil {
				return fmt.Errorf("insert %s: %w", me.key, err)
			}
			metrics.RecordFlush(metrics.OpInsert)
			log.Debug("엔티티 저장", "key", me.key)

		case stateManaged:
			changes, err := me.dirtyColumns(ctx)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				continue
			}

			result := db.WithContext(ctx).
				Model(me.blank()).
				Where(byIdentifier(me.schema, me.identifier(ctx))).
				Updates(changes)
			if result.Error != nil {
				return fmt.Errorf("update %s: %w", me.key, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrStaleEntity, me.key)
			}
			metrics.RecordFlush(metrics.OpUpdate)
			log.Debug("엔티티 변경 반영", "key", me.key, "columns", len(changes))

		case stateRemoved:
			result := db.WithContext(ctx).
				Where(byIdentifier(me.schema, me.identifier(ctx))).
				Delete(me.blank())
			if result.Error != nil {
				return fmt.Errorf("delete %s: %w", me.key, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrStaleEntity, me.key)
			}
			metrics.RecordFlush(metrics.OpDelete)
			log.Debug("엔티티 삭제", "key", me.key)
		}
	}

	em.pc.synchronize(ctx)
	return nil
}

// byIdentifier matches the row of s by primary key. Zero keys are matched too,
// which GORM's own primary key condition skips.
func byIdentifier(s *schema.Schema, id any) clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: s.PrioritizedPrimaryField.DBName},
		Value:  id,
	}
}
