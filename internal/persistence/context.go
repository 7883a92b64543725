package persistence

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm/schema"
)

type entityState int

const (
	stateNew entityState = iota
	stateManaged
	stateRemoved
)

// managedEntity is one entry of the identity map
type managedEntity struct {
	key      string
	entity   any
	schema   *schema.Schema
	state    entityState
	snapshot map[string]any
}

// persistenceContext maps identifiers to the single instance loaded for them
type persistenceContext struct {
	byKey    map[string]*managedEntity
	byEntity map[any]*managedEntity
	order    []*managedEntity
}

func newPersistenceContext() *persistenceContext {
	return &persistenceContext{
		byKey:    map[string]*managedEntity{},
		byEntity: map[any]*managedEntity{},
	}
}

func entityKey(s *schema.Schema, id any) string {
	return fmt.Sprintf("%s#%v", s.Table, plainIdentifier(id))
}

// plainIdentifier dereferences pointer ids so *int64 and int64 share a key
func plainIdentifier(id any) any {
	rv := reflect.ValueOf(id)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func (pc *persistenceContext) lookup(key string) (*managedEntity, bool) {
	me, ok := pc.byKey[key]
	return me, ok
}

func (pc *persistenceContext) entry(entity any) (*managedEntity, bool) {
	// only pointers are ever stored; other values may not be hashable
	if rv := reflect.ValueOf(entity); !rv.IsValid() || rv.Kind() != reflect.Pointer {
		return nil, false
	}
	me, ok := pc.byEntity[entity]
	return me, ok
}

func (pc *persistenceContext) add(me *managedEntity) {
	pc.byKey[me.key] = me
	pc.byEntity[me.entity] = me
	pc.order = append(pc.order, me)
}

// manage registers a loaded entity and remembers its column values
func (pc *persistenceContext) manage(ctx context.Context, key string, entity any, s *schema.Schema) {
	pc.add(&managedEntity{
		key:      key,
		entity:   entity,
		schema:   s,
		state:    stateManaged,
		snapshot: snapshotOf(ctx, s, entity),
	})
}

func (pc *persistenceContext) forget(me *managedEntity) {
	delete(pc.byKey, me.key)
	delete(pc.byEntity, me.entity)
	for i, candidate := range pc.order {
		if candidate == me {
			pc.order = append(pc.order[:i], pc.order[i+1:]...)
			break
		}
	}
}

func (pc *persistenceContext) entries() []*managedEntity {
	return append([]*managedEntity(nil), pc.order...)
}

// synchronize marks the context as matching the database after a successful flush
func (pc *persistenceContext) synchronize(ctx context.Context) {
	for _, me := range pc.entries() {
		switch me.state {
		case stateRemoved:
			pc.forget(me)
		default:
			me.state = stateManaged
			me.snapshot = snapshotOf(ctx, me.schema, me.entity)
		}
	}
}

func (pc *persistenceContext) reset() {
	pc.byKey = map[string]*managedEntity{}
	pc.byEntity = map[any]*managedEntity{}
	pc.order = nil
}

func (pc *persistenceContext) size() int {
	return len(pc.order)
}

func snapshotOf(ctx context.Context, s *schema.Schema, entity any) map[string]any {
	rv := reflect.Indirect(reflect.ValueOf(entity))
	snapshot := make(map[string]any, len(s.DBNames))
	for _, name := range s.DBNames {
		field := s.FieldsByDBName[name]
		value, _ := field.ValueOf(ctx, rv)
		snapshot[name] = value
	}
	return snapshot
}

// dirtyColumns returns the non-key columns whose value differs from the snapshot
func (me *managedEntity) dirtyColumns(ctx context.Context) (map[string]any, error) {
	current := snapshotOf(ctx, me.schema, me.entity)
	changes := map[string]any{}

	for name, value := range current {
		field := me.schema.FieldsByDBName[name]
		if field.PrimaryKey {
			if !reflect.DeepEqual(me.snapshot[name], value) {
				return nil, fmt.Errorf("%w: %s", ErrIdentifierChanged, me.key)
			}
			continue
		}
		if !reflect.DeepEqual(me.snapshot[name], value) {
			changes[name] = value
		}
	}

	return changes, nil
}

// blank returns a zero instance of the entity type, used as the statement model
// so GORM adds no key condition of its own
func (me *managedEntity) blank() any {
	return reflect.New(me.schema.ModelType).Interface()
}

func (me *managedEntity) identifier(ctx context.Context) any {
	rv := reflect.Indirect(reflect.ValueOf(me.entity))
	value, _ := me.schema.PrioritizedPrimaryField.ValueOf(ctx, rv)
	return value
}
