package store

import (
	"context"

	"gorm.io/gorm"
)

// Reader is the read half of a Facade. Entity services depend on it when
// they only navigate to related records.
type Reader[T any] interface {
	SelectAll(ctx context.Context) ([]T, error)
	SelectByID(ctx context.Context, id string) (*T, error)
	SelectByIDs(ctx context.Context, ids ...string) ([]T, error)
}

type Writer[T any, P Record[T]] interface {
	Insert(ctx context.Context, recs ...P) ([]string, error)
	Update(ctx context.Context, recs ...P) (int, error)
	Delete(ctx context.Context, recs ...P) (int, error)
	DeleteByIDs(ctx context.Context, ids ...string) (int, error)
}

type Scope = func(*gorm.DB) *gorm.DB

var _ Reader[Model] = (*Facade[Model, *Model])(nil)
var _ Writer[Model, *Model] = (*Facade[Model, *Model])(nil)
