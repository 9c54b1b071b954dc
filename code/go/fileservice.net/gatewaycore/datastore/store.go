package datastore

import (
	"context"

	"gorm.io/gorm"
)

type contextKey int

// ContextKeyTransaction - the transaction handle carried inside a request context.
const ContextKeyTransaction contextKey = iota

// Store is the metadata store port. The production implementation is postgres;
// sqlite (in-memory), mocket and sqlmock back the tests.
type Store interface {
	Open() error
	Close()

	GetDB() *gorm.DB
	CreateTransaction(ctx context.Context) context.Context
	GetTransaction(ctx context.Context) *gorm.DB
	WithNewTransaction(f func(ctx context.Context) error) error
	WithTransaction(ctx context.Context, f func(ctx context.Context) error) error
	AutoMigrate() error
}

var instance Store = &postgresStore{}

func GetStore() Store {
	return instance
}
