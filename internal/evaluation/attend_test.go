package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shschool-data/internal/permrec"
	"shschool-data/internal/store"
	"shschool-data/internal/store/storetest"
)

func newAttendDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := storetest.NewDB(t, append(permrec.Models(), Models()...)...)

	courses := []permrec.Course{
		{Model: store.Model{ID: "c1"}, Name: "國文A", SchoolYear: intp(99), Semester: intp(1), Required: true, RequiredBy: "部訂"},
		{Model: store.Model{ID: "c2"}, Name: "數學A", SchoolYear: intp(99), Semester: intp(2)},
		{Model: store.Model{ID: "c3"}, Name: "英文A", SchoolYear: intp(98), Semester: intp(1)},
	}
	require.NoError(t, db.Create(&courses).Error)

	no := false
	attends := []SCAttend{
		{Model: store.Model{ID: "a1"}, RefStudentID: "s1", RefCourseID: "c1"},
		{Model: store.Model{ID: "a2"}, RefStudentID: "s1", RefCourseID: "c2", OverrideRequired: &no, OverrideRequiredBy: "校訂"},
		{Model: store.Model{ID: "a3"}, RefStudentID: "s2", RefCourseID: "c1"},
		{Model: store.Model{ID: "a4"}, RefStudentID: "s2", RefCourseID: "c3"},
	}
	require.NoError(t, db.Create(&attends).Error)

	takes := []SCETake{
		{Model: store.Model{ID: "e1"}, RefSCAttendID: "a1", RefExamID: "x1", Score: f64(80)},
		{Model: store.Model{ID: "e2"}, RefSCAttendID: "a1", RefExamID: "x2", Score: f64(70)},
		{Model: store.Model{ID: "e3"}, RefSCAttendID: "a3", RefExamID: "x1", Score: f64(60)},
		{Model: store.Model{ID: "e4"}, RefSCAttendID: "a4", RefExamID: "x1"},
	}
	require.NoError(t, db.Create(&takes).Error)
	return db
}

func takeIDs(recs []SCETake) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestSCAttend_SelectByCourseTerm(t *testing.T) {
	svc := NewSCAttendService(newAttendDB(t), nil)
	ctx := context.Background()

	got, err := svc.Select(ctx, SCAttendQuery{SchoolYear: intp(99), Semester: intp(1)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a3", got[1].ID)

	got, err = svc.Select(ctx, SCAttendQuery{StudentIDs: []string{"s2"}, SchoolYear: intp(98)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c3", got[0].RefCourseID)

	got, err = svc.SelectByStudentIDAndCourseID(ctx, []string{"s1"}, []string{"c2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)

	none, err := svc.SelectByStudentIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSCAttend_RequiredOverride(t *testing.T) {
	svc := NewSCAttendService(newAttendDB(t), nil)
	course := permrec.Course{Required: true, RequiredBy: "部訂"}

	recs, err := svc.SelectByStudentID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.True(t, recs[0].Required(course))
	assert.Equal(t, "部訂", recs[0].RequiredBy(course))
	assert.False(t, recs[1].Required(course))
	assert.Equal(t, "校訂", recs[1].RequiredBy(course))
}

func TestSCETake_SelectThroughAttendance(t *testing.T) {
	svc := NewSCETakeService(newAttendDB(t), nil)
	ctx := context.Background()

	got, err := svc.SelectByCourseAndExam(ctx, "x1", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e3"}, takeIDs(got))

	got, err = svc.SelectByStudentAndCourse(ctx, []string{"s1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, takeIDs(got))

	got, err = svc.SelectByStudentIDs(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"e3", "e4"}, takeIDs(got))
	assert.Nil(t, got[1].Score)

	got, err = svc.SelectByCourseAndExam(ctx, "x1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSCETake_TextKeepsExtension(t *testing.T) {
	take := SCETake{Extension: `<Extension><Other>keep</Other></Extension>`}
	assert.Empty(t, take.Text())

	take.SetText("表現良好")
	assert.Equal(t, "表現良好", take.Text())
	assert.Contains(t, take.Extension, "<Other>keep</Other>")

	var blank SCETake
	blank.SetText("ok")
	assert.Equal(t, "<Extension><Text>ok</Text></Extension>", blank.Extension)
}

func TestSCETake_UpdateRoundTrip(t *testing.T) {
	db := newAttendDB(t)
	svc := NewSCETakeService(db, nil)
	ctx := context.Background()

	rec, err := svc.SelectByID(ctx, "e4")
	require.NoError(t, err)
	require.NotNil(t, rec)
	rec.Score = f64(55)
	rec.SetText("補考")

	n, err := svc.UpdateOne(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	again, err := svc.SelectByID(ctx, "e4")
	require.NoError(t, err)
	assert.Equal(t, 55.0, *again.Score)
	assert.Equal(t, "補考", again.Text())
}

func TestTCInstruct_SelectByTeacherAndCourse(t *testing.T) {
	db := storetest.NewDB(t, Models()...)
	svc := NewTCInstructService(db, nil)
	ctx := context.Background()

	_, err := svc.Insert(ctx,
		&TCInstruct{Model: store.Model{ID: "t1"}, RefTeacherID: "T1", RefCourseID: "c1", Sequence: intp(1)},
		&TCInstruct{Model: store.Model{ID: "t2"}, RefTeacherID: "T2", RefCourseID: "c1", Sequence: intp(2)},
		&TCInstruct{Model: store.Model{ID: "t3"}, RefTeacherID: "T1", RefCourseID: "c2", Sequence: intp(1)},
	)
	require.NoError(t, err)

	got, err := svc.SelectByTeacherIDAndCourseID(ctx, []string{"T1"}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = svc.SelectByTeacherIDAndCourseID(ctx, []string{"T1"}, []string{"c1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestMoralScore_Terms(t *testing.T) {
	db := storetest.NewDB(t, Models()...)
	svc := NewMoralScoreService(db, nil)
	ctx := context.Background()

	_, err := svc.Insert(ctx,
		&MoralScore{Model: store.Model{ID: "m1"}, RefStudentID: "s1", SchoolYear: 98, Semester: 1, Diff: f64(1)},
		&MoralScore{Model: store.Model{ID: "m2"}, RefStudentID: "s1", SchoolYear: 98, Semester: 2, Diff: f64(-1)},
		&MoralScore{Model: store.Model{ID: "m3"}, RefStudentID: "s1", SchoolYear: 99, Semester: 1},
		&MoralScore{Model: store.Model{ID: "m4"}, RefStudentID: "s2", SchoolYear: 99, Semester: 1, Comment: "ok"},
	)
	require.NoError(t, err)

	got, err := svc.Select(ctx, MoralScoreQuery{
		StudentIDs: []string{"s1"},
		Terms:      []SchoolYearSemester{{SchoolYear: 98, Semester: 1}, {SchoolYear: 99, Semester: 1}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)

	one, err := svc.SelectBySchoolYearAndSemester(ctx, "s2", 99, 1)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "ok", one.Comment)

	missing, err := svc.SelectBySchoolYearAndSemester(ctx, "s2", 98, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := svc.SelectByStudentIDs(ctx, "s1", "s2")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMoralScore_OtherDiff(t *testing.T) {
	var m MoralScore
	assert.Nil(t, m.OtherDiffElement())

	m.OtherDiff = "<not xml"
	assert.Nil(t, m.OtherDiffElement())

	m.OtherDiff = `<Other><Item Name="加分" Value="2"/></Other>`
	el := m.OtherDiffElement()
	require.NotNil(t, el)
	assert.Equal(t, "2", el.FindElement("Item").SelectAttrValue("Value", ""))

	m.SetOtherDiff(el)
	assert.Contains(t, m.OtherDiff, `Name="加分"`)
}
