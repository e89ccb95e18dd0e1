package behavior

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shschool-data/internal/store"
)

func seedDiscipline(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := NewMeritService(db, nil).Insert(ctx,
		&Discipline{Model: store.Model{ID: "m1"}, RefStudentID: "s1", SchoolYear: 99, Semester: 1,
			OccurDate: day(2010, time.October, 1), RegisterDate: dayp(2010, time.October, 3), Reason: "熱心公益", A: intPtr(1)},
		&Discipline{Model: store.Model{ID: "m2"}, RefStudentID: "s2", SchoolYear: 99, Semester: 2,
			OccurDate: day(2011, time.March, 10), Reason: "協助活動", C: intPtr(2), MeritFlag: FlagDemerit},
	)
	require.NoError(t, err)

	_, err = NewDemeritService(db, nil).Insert(ctx,
		&Discipline{Model: store.Model{ID: "d1"}, RefStudentID: "s1", SchoolYear: 99, Semester: 1,
			OccurDate: day(2010, time.November, 5), RegisterDate: dayp(2010, time.November, 5), Reason: "遲到", C: intPtr(1),
			Cleared: true, ClearDate: dayp(2011, time.January, 10), ClearReason: "表現良好"},
	)
	require.NoError(t, err)

	_, err = NewDisciplineService(db, nil).Insert(ctx,
		&Discipline{Model: store.Model{ID: "p1"}, RefStudentID: "s1", SchoolYear: 99, Semester: 1,
			OccurDate: day(2010, time.December, 1), MeritFlag: FlagProbation},
	)
	require.NoError(t, err)
}

func disciplineIDs(recs []Discipline) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestDiscipline_FlagPinnedServices(t *testing.T) {
	db := newTestDB(t)
	seedDiscipline(t, db)
	ctx := context.Background()

	merits, err := NewMeritService(db, nil).SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, disciplineIDs(merits))
	for _, m := range merits {
		assert.True(t, m.IsMerit())
	}

	demerits, err := NewDemeritService(db, nil).SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, disciplineIDs(demerits))
	assert.True(t, demerits[0].IsDemerit())
	assert.True(t, demerits[0].Cleared)

	all, err := NewDisciplineService(db, nil).SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "m1", "m2", "p1"}, disciplineIDs(all))
}

func TestDiscipline_SelectByIDRespectsFlag(t *testing.T) {
	db := newTestDB(t)
	seedDiscipline(t, db)
	ctx := context.Background()
	merits := NewMeritService(db, nil)

	rec, err := merits.SelectByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, *rec.A)

	rec, err = merits.SelectByID(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	recs, err := merits.SelectByIDs(ctx, "m2", "d1", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, disciplineIDs(recs))

	none, err := merits.SelectByID(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDiscipline_Select(t *testing.T) {
	db := newTestDB(t)
	seedDiscipline(t, db)
	ctx := context.Background()
	svc := NewDisciplineService(db, nil)

	tests := []struct {
		name string
		q    DisciplineQuery
		want []string
	}{
		{name: "student", q: DisciplineQuery{StudentIDs: []string{"s1"}}, want: []string{"d1", "m1", "p1"}},
		{name: "occur", q: DisciplineQuery{StartDate: dayp(2010, time.October, 1), EndDate: dayp(2010, time.November, 5)}, want: []string{"d1", "m1"}},
		{name: "register", q: DisciplineQuery{StartRegisterDate: dayp(2010, time.October, 4)}, want: []string{"d1"}},
		{name: "clear", q: DisciplineQuery{EndClearDate: dayp(2011, time.January, 10)}, want: []string{"d1"}},
		{name: "school year", q: DisciplineQuery{SchoolYears: []int{99}, Semesters: []int{2}}, want: []string{"m2"}},
		{name: "terms", q: DisciplineQuery{Terms: []Term{{SchoolYear: 99, Semester: 2}, {SchoolYear: 98, Semester: 1}}}, want: []string{"m2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Select(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, disciplineIDs(got))
		})
	}
}

func TestDiscipline_ShortcutSelects(t *testing.T) {
	db := newTestDB(t)
	seedDiscipline(t, db)
	ctx := context.Background()
	merits := NewMeritService(db, nil)

	sy, sem := 99, 1
	got, err := merits.SelectBySchoolYearAndSemester(ctx, &sy, &sem, "s1", "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, disciplineIDs(got))

	got, err = merits.SelectBySchoolYearAndSemester(ctx, &sy, &sem)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = merits.SelectByStudentIDs(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, disciplineIDs(got))

	got, err = merits.SelectByOccurDate(ctx, nil, dayp(2011, time.January, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, disciplineIDs(got))

	got, err = NewDemeritService(db, nil).SelectByRegisterDate(ctx, []string{"s1"}, dayp(2010, time.November, 5), dayp(2010, time.November, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, disciplineIDs(got))
}

func TestDiscipline_UpdateKeepsFlag(t *testing.T) {
	db := newTestDB(t)
	seedDiscipline(t, db)
	ctx := context.Background()
	demerits := NewDemeritService(db, nil)

	rec, err := demerits.SelectByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec.MeritFlag = FlagMerit
	rec.Reason = "遲到二次"
	n, err := demerits.UpdateOne(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	again, err := demerits.SelectByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "遲到二次", again.Reason)
	assert.True(t, again.IsDemerit())

	deleted, err := demerits.DeleteByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func TestDiscipline_WritesStayWithinFlag(t *testing.T) {
	db := newTestDB(t)
	seedDiscipline(t, db)
	ctx := context.Background()
	merits := NewMeritService(db, nil)
	demerits := NewDemeritService(db, nil)

	d, err := demerits.SelectByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, d)

	d.Reason = "改為獎勵"
	n, err := merits.Update(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	still, err := demerits.SelectByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, "遲到", still.Reason)

	n, err = merits.DeleteByIDs(ctx, "d1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = merits.Delete(ctx, still)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := NewDisciplineService(db, nil).SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "m1", "m2", "p1"}, disciplineIDs(all))

	n, err = merits.DeleteByIDs(ctx, "m1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
