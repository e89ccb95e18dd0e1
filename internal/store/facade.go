package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"shschool-data/internal/logger"
	"shschool-data/internal/util"
)

// Facade is the generic CRUD surface every SQL-backed entity narrows.
type Facade[T any, P Record[T]] struct {
	Notifier
	DB  *gorm.DB
	Log *zap.Logger

	// WriteScope, when set, narrows which rows Update and Delete may touch.
	WriteScope Scope
}

func NewFacade[T any, P Record[T]](db *gorm.DB, log *zap.Logger) *Facade[T, P] {
	return &Facade[T, P]{DB: db, Log: logger.OrNop(log)}
}

func (f *Facade[T, P]) db(ctx context.Context) *gorm.DB {
	return f.DB.WithContext(ctx)
}

func (f *Facade[T, P]) writable(db *gorm.DB) *gorm.DB {
	if f.WriteScope == nil {
		return db
	}
	return db.Scopes(f.WriteScope)
}

// Table is the table name of T, or "" when T does not name one.
func (f *Facade[T, P]) Table() string {
	var zero T
	if t, ok := any(&zero).(schema.Tabler); ok {
		return t.TableName()
	}
	return ""
}

func (f *Facade[T, P]) SelectAll(ctx context.Context) ([]T, error) {
	return f.Find(ctx, OrderByID)
}

// SelectByID returns nil, nil when no record has the id.
func (f *Facade[T, P]) SelectByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	var rec T
	err := f.db(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select %s %s", f.Table(), id)
	}
	return &rec, nil
}

// SelectByIDs returns the records that exist; missing ids are dropped.
func (f *Facade[T, P]) SelectByIDs(ctx context.Context, ids ...string) ([]T, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return []T{}, nil
	}
	return f.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	}, OrderByID)
}

// Where runs an entity-specific filter ordered by id.
func (f *Facade[T, P]) Where(ctx context.Context, query any, args ...any) ([]T, error) {
	return f.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}, OrderByID)
}

// OrderByID is the default ordering of every select.
func OrderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// Find applies scopes in order. Callers pass their own ordering scope.
func (f *Facade[T, P]) Find(ctx context.Context, scopes ...Scope) ([]T, error) {
	out := []T{}
	if err := f.db(ctx).Scopes(scopes...).Find(&out).Error; err != nil {
		return nil, errors.Wrapf(err, "select %s", f.Table())
	}
	return out, nil
}

// Insert writes recs in one transaction and returns their ids in input
// order. Records without an id get a generated one.
func (f *Facade[T, P]) Insert(ctx context.Context, recs ...P) ([]string, error) {
	if len(recs) == 0 {
		return []string{}, nil
	}
	ids := make([]string, 0, len(recs))
	err := f.db(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range recs {
			if r == nil {
				continue
			}
			if r.GetID() == "" {
				r.SetID(uuid.NewString())
			}
			if err := tx.Create(r).Error; err != nil {
				return err
			}
			ids = append(ids, r.GetID())
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "insert %s", f.Table())
	}
	f.Notify(ChangeEvent{Table: f.Table(), Kind: Inserted, IDs: ids})
	return ids, nil
}

func (f *Facade[T, P]) InsertOne(ctx context.Context, rec P) (string, error) {
	ids, err := f.Insert(ctx, rec)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

// Update writes every column of recs and returns how many rows the database
// reported as changed. Records without an id are skipped.
func (f *Facade[T, P]) Update(ctx context.Context, recs ...P) (int, error) {
	total := 0
	var ids []string
	err := f.db(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range recs {
			if r == nil || r.GetID() == "" {
				logger.OrNop(f.Log).Debug("update skipped record without id", zap.String("table", f.Table()))
				continue
			}
			res := f.writable(tx.Model(r)).Select("*").Omit("id").Updates(r)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				ids = append(ids, r.GetID())
			}
			total += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "update %s", f.Table())
	}
	if len(ids) > 0 {
		f.Notify(ChangeEvent{Table: f.Table(), Kind: Updated, IDs: ids})
	}
	return total, nil
}

func (f *Facade[T, P]) UpdateOne(ctx context.Context, rec P) (int, error) {
	return f.Update(ctx, rec)
}

func (f *Facade[T, P]) Delete(ctx context.Context, recs ...P) (int, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			ids = append(ids, r.GetID())
		}
	}
	return f.DeleteByIDs(ctx, ids...)
}

// DeleteByIDs returns the number of rows actually removed.
func (f *Facade[T, P]) DeleteByIDs(ctx context.Context, ids ...string) (int, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	res := f.writable(f.db(ctx)).Where("id IN ?", ids).Delete(P(new(T)))
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "delete %s", f.Table())
	}
	if res.RowsAffected > 0 {
		f.Notify(ChangeEvent{Table: f.Table(), Kind: Deleted, IDs: ids})
	}
	return int(res.RowsAffected), nil
}

func (f *Facade[T, P]) DeleteByID(ctx context.Context, id string) (int, error) {
	return f.DeleteByIDs(ctx, id)
}
