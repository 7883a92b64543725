package persistence

import "errors"

var (
	ErrUnknownPersistenceUnit = errors.New("persistence: unknown persistence unit")
	ErrFactoryClosed          = errors.New("persistence: entity manager factory is closed")
	ErrEntityManagerClosed    = errors.New("persistence: entity manager is closed")
	ErrTransactionActive      = errors.New("persistence: transaction already active")
	ErrTransactionNotActive   = errors.New("persistence: transaction not active")
	ErrEntityNotFound         = errors.New("persistence: entity not found")
	ErrEntityExists           = errors.New("persistence: another instance with the same identifier is already managed")
	ErrEntityNotManaged       = errors.New("persistence: entity is not managed")
	ErrNotEntity              = errors.New("persistence: value is not a mapped entity")
	ErrIdentifierChanged      = errors.New("persistence: identifier of a managed entity was changed")
	ErrStaleEntity            = errors.New("persistence: row was modified or deleted concurrently")
)
