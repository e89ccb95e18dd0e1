package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shschool-data/internal/store/storetest"
)

type widget struct {
	Model
	Name  string `gorm:"column:name"`
	Count int    `gorm:"column:count"`
}

func (widget) TableName() string { return "widget" }

func newWidgetFacade(t *testing.T) (*Facade[widget, *widget], *gorm.DB) {
	t.Helper()
	db := storetest.NewDB(t, &widget{})
	return NewFacade[widget](db, nil), db
}

func seedWidgets(t *testing.T, f *Facade[widget, *widget], names ...string) []string {
	t.Helper()
	recs := make([]*widget, len(names))
	for i, n := range names {
		recs[i] = &widget{Model: Model{ID: n}, Name: n}
	}
	ids, err := f.Insert(context.Background(), recs...)
	require.NoError(t, err)
	return ids
}

func TestFacade_Insert_AssignsIDs(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()

	a := &widget{Name: "a"}
	b := &widget{Model: Model{ID: "fixed"}, Name: "b"}
	ids, err := f.Insert(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	assert.NotEmpty(t, ids[0])
	assert.Equal(t, a.ID, ids[0])
	assert.Equal(t, "fixed", ids[1])

	got, err := f.SelectByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Name)
}

func TestFacade_Insert_RollsBackOnConflict(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()
	seedWidgets(t, f, "1")

	_, err := f.Insert(ctx, &widget{Model: Model{ID: "2"}}, &widget{Model: Model{ID: "1"}})
	require.Error(t, err)

	all, err := f.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFacade_SelectByID_Missing_ReturnsNil(t *testing.T) {
	f, _ := newWidgetFacade(t)

	got, err := f.SelectByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.SelectByID(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFacade_SelectByIDs_DropsMissing(t *testing.T) {
	f, _ := newWidgetFacade(t)
	seedWidgets(t, f, "1", "2", "3")

	got, err := f.SelectByIDs(context.Background(), "3", "404", "1", "", "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFacade_SelectByIDs_Empty_NoQuery(t *testing.T) {
	db, mock, _ := storetest.NewMockDB(t)
	f := NewFacade[widget](db, nil)

	got, err := f.SelectByIDs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacade_SelectByIDs_SQL(t *testing.T) {
	db, mock, _ := storetest.NewMockDB(t)
	f := NewFacade[widget](db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "widget" WHERE id IN ($1,$2) ORDER BY id`)).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count"}).AddRow("a", "A", 1))

	got, err := f.SelectByIDs(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacade_Update_CountsExistingOnly(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()
	seedWidgets(t, f, "1", "2")

	n, err := f.Update(ctx,
		&widget{Model: Model{ID: "1"}, Name: "one", Count: 0},
		&widget{Model: Model{ID: "gone"}, Name: "x"},
		&widget{Name: "no id"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.SelectByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Name)
}

func TestFacade_Update_WritesZeroValues(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()
	_, err := f.Insert(ctx, &widget{Model: Model{ID: "1"}, Name: "x", Count: 5})
	require.NoError(t, err)

	_, err = f.UpdateOne(ctx, &widget{Model: Model{ID: "1"}, Name: "", Count: 0})
	require.NoError(t, err)

	got, _ := f.SelectByID(ctx, "1")
	assert.Equal(t, "", got.Name)
	assert.Equal(t, 0, got.Count)
}

func TestFacade_Delete_Variants(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()
	seedWidgets(t, f, "1", "2", "3", "4")

	n, err := f.Delete(ctx, &widget{Model: Model{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.DeleteByIDs(ctx, "2", "3", "missing")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.DeleteByID(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = f.DeleteByIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, _ := f.SelectAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "4", all[0].ID)
}

func TestFacade_Where(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()
	_, err := f.Insert(ctx,
		&widget{Model: Model{ID: "b"}, Name: "keep"},
		&widget{Model: Model{ID: "a"}, Name: "keep"},
		&widget{Model: Model{ID: "c"}, Name: "drop"},
	)
	require.NoError(t, err)

	got, err := f.Where(ctx, "name = ?", "keep")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
}

func TestFacade_OnChange_FiresAfterWrites(t *testing.T) {
	f, _ := newWidgetFacade(t)
	ctx := context.Background()

	var events []ChangeEvent
	f.OnChange(func(ev ChangeEvent) { events = append(events, ev) })

	seedWidgets(t, f, "1")
	_, _ = f.Update(ctx, &widget{Model: Model{ID: "1"}, Name: "z"})
	_, _ = f.Update(ctx, &widget{Model: Model{ID: "nope"}})
	_, _ = f.DeleteByID(ctx, "1")

	require.Len(t, events, 3)
	assert.Equal(t, Inserted, events[0].Kind)
	assert.Equal(t, Updated, events[1].Kind)
	assert.Equal(t, Deleted, events[2].Kind)
	assert.Equal(t, "widget", events[2].Table)
	assert.Equal(t, []string{"1"}, events[2].IDs)
}

func TestFacade_DBBroken_ReturnsErrors(t *testing.T) {
	f, db := newWidgetFacade(t)
	storetest.Break(t, db)
	ctx := context.Background()

	_, err := f.SelectAll(ctx)
	assert.Error(t, err)
	_, err = f.SelectByID(ctx, "1")
	assert.Error(t, err)
	_, err = f.Insert(ctx, &widget{Name: "x"})
	assert.Error(t, err)
	_, err = f.DeleteByID(ctx, "1")
	assert.Error(t, err)
}
