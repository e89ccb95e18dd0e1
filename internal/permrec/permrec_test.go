package permrec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shschool-data/internal/store"
)

func TestStudentService_SelectByClass(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Students.Insert(ctx,
		&Student{Model: store.Model{ID: "s1"}, Name: "王小明", RefClassID: "c1"},
		&Student{Model: store.Model{ID: "s2"}, Name: "李小華", RefClassID: "c1"},
		&Student{Model: store.Model{ID: "s3"}, Name: "陳大同", RefClassID: "c2"},
		&Student{Model: store.Model{ID: "s4"}, Name: "林無班"},
	)
	require.NoError(t, err)

	got, err := svc.Students.SelectByClassID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Students.SelectByClasses(ctx, []Class{{Model: store.Model{ID: "c1"}}, {Model: store.Model{ID: "c2"}}})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.Students.SelectByClassIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStudentService_SelectByIDs_PartialResult(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Students.Insert(ctx,
		&Student{Model: store.Model{ID: "1"}},
		&Student{Model: store.Model{ID: "2"}},
	)
	require.NoError(t, err)

	got, err := svc.Students.SelectByIDs(ctx, "1", "x", "2", "y")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCourseService_TermFilters(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Courses.Insert(ctx,
		&Course{Name: "國文", SchoolYear: intPtr(112), Semester: intPtr(1), RefClassID: "c1"},
		&Course{Name: "數學", SchoolYear: intPtr(112), Semester: intPtr(1), RefClassID: "c2"},
		&Course{Name: "國文", SchoolYear: intPtr(112), Semester: intPtr(2), RefClassID: "c1"},
		&Course{Name: "英文", SchoolYear: intPtr(111), Semester: intPtr(1), RefClassID: "c1"},
	)
	require.NoError(t, err)

	got, err := svc.Courses.SelectByClass(ctx, intPtr(112), intPtr(1), "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "國文", got[0].Name)

	got, err = svc.Courses.SelectByClass(ctx, nil, nil, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.Courses.SelectBySchoolYearAndSemester(ctx, intPtr(112), nil, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.Courses.SelectBySchoolYearAndSemester(ctx, intPtr(112), nil, "國文")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func seedTags(t *testing.T, svc *Services) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.TagConfigs.Insert(ctx,
		&TagConfig{Model: store.Model{ID: "t1"}, Category: TagStudent, Prefix: "身分", Name: "原住民"},
		&TagConfig{Model: store.Model{ID: "t2"}, Category: TagStudent, Name: "僑生"},
		&TagConfig{Model: store.Model{ID: "t3"}, Category: TagClass, Prefix: "班級", Name: "資優"},
	)
	require.NoError(t, err)
	_, err = svc.StudentTags.Insert(ctx,
		&StudentTag{TagLink: TagLink{Model: store.Model{ID: "l1"}, RefEntityID: "s1", RefTagID: "t1"}},
		&StudentTag{TagLink: TagLink{Model: store.Model{ID: "l2"}, RefEntityID: "s1", RefTagID: "t2"}},
		&StudentTag{TagLink: TagLink{Model: store.Model{ID: "l3"}, RefEntityID: "s2", RefTagID: "gone"}},
	)
	require.NoError(t, err)
}

func TestTagConfig_FullNameAndCategory(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	seedTags(t, svc)
	ctx := context.Background()

	got, err := svc.TagConfigs.SelectByCategory(ctx, TagStudent)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.TagConfigs.SelectByCategoryAndPrefix(ctx, TagStudent, "身分")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "身分:原住民", got[0].FullName())
	assert.Equal(t, "僑生", TagConfig{Name: "僑生"}.FullName())
}

func TestTagService_FullNamesAndDescribe(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	seedTags(t, svc)
	ctx := context.Background()

	names, err := svc.StudentTags.FullNames(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"身分:原住民", "僑生"}, names)

	names, err = svc.StudentTags.FullNames(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, names)

	links, err := svc.StudentTags.SelectByEntityIDs(ctx, "s1", "s2")
	require.NoError(t, err)
	require.Len(t, links, 3)

	entries, err := svc.StudentTags.SelectAllDetail(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "身分:原住民", entries[0].FullName)
	assert.Equal(t, TagStudent, entries[0].Category)
	assert.Equal(t, "", entries[2].FullName)
}

func TestStudentInfoService_OneRowPerStudent(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Addresses.Insert(ctx,
		&Address{RefStudentID: "s1", Permanent: AddressItem{County: "台北市", Detail: "忠孝東路一段"}},
		&Address{RefStudentID: "s2", Mailing: AddressItem{ZipCode: "100"}},
	)
	require.NoError(t, err)

	got, err := svc.Addresses.SelectByStudentID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "台北市", got.Permanent.County)

	got.Permanent.Detail = "仁愛路"
	n, err := svc.Addresses.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	again, err := svc.Addresses.SelectByStudentID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "仁愛路", again.Permanent.Detail)

	missing, err := svc.Addresses.SelectByStudentID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := svc.Addresses.SelectByStudents(ctx, []Student{{Model: store.Model{ID: "s1"}}, {Model: store.Model{ID: "s2"}}})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestParentService_EmbeddedGuardians(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()
	alive := true

	_, err := svc.Parents.Insert(ctx, &Parent{
		RefStudentID: "s1",
		Father:       Guardian{Name: "王大明", Living: &alive},
		Custodian:    Guardian{Name: "王大明", Relationship: "父"},
	})
	require.NoError(t, err)

	got, err := svc.Parents.SelectByStudentID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "王大明", got.Father.Name)
	require.NotNil(t, got.Father.Living)
	assert.True(t, *got.Father.Living)
	assert.Nil(t, got.Mother.Living)
	assert.Equal(t, "父", got.Custodian.Relationship)
}

func TestSemesterHistoryService_SelectAllDetail(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.SemesterHistories.Insert(ctx,
		&SemesterHistory{RefStudentID: "s1", Items: []SemesterHistoryItem{
			{SchoolYear: 111, Semester: 1, GradeYear: 1, ClassName: "101"},
			{SchoolYear: 111, Semester: 2, GradeYear: 1, ClassName: "101"},
		}},
		&SemesterHistory{RefStudentID: "s2", Items: []SemesterHistoryItem{
			{SchoolYear: 111, Semester: 1, GradeYear: 2, ClassName: "201"},
		}},
	)
	require.NoError(t, err)

	items, err := svc.SemesterHistories.SelectAllDetail(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.NotEmpty(t, it.RefStudentID)
	}

	h, err := svc.SemesterHistories.SelectByStudentID(ctx, "s2")
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Len(t, h.Items, 1)
	assert.Equal(t, "201", h.Items[0].ClassName)
}

func TestUpdateRecord_Attributes(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	rec := &UpdateRecord{RefStudentID: "s1", UpdateCode: "001"}
	rec.SetAttr(AttrPreviousSchool, "市立一中")
	rec.SetAttr(AttrPreviousGradeYear, "2")
	rec.SetAttr(AttrNewStudentNumber, "")
	_, err := svc.UpdateRecords.Insert(ctx, rec,
		&UpdateRecord{RefStudentID: "s2", UpdateCode: "221"},
		&UpdateRecord{RefStudentID: "s1", UpdateCode: "221"},
	)
	require.NoError(t, err)

	got, err := svc.UpdateRecords.SelectByUpdateCodes(ctx, "001")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "市立一中", got[0].PreviousSchool())
	require.NotNil(t, got[0].PreviousGradeYear())
	assert.Equal(t, 2, *got[0].PreviousGradeYear())
	assert.Nil(t, got[0].PreviousSemester())
	assert.Equal(t, "", got[0].NewStudentNumber())

	got, err = svc.UpdateRecords.SelectByStudentID(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateRecordBatchService_SelectBySchoolYearAndSemester(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.UpdateRecordBatches.Insert(ctx,
		&UpdateRecordBatch{Name: "112-1 轉入", SchoolYear: intPtr(112), Semester: intPtr(1)},
		&UpdateRecordBatch{Name: "112-2 轉出", SchoolYear: intPtr(112), Semester: intPtr(2)},
	)
	require.NoError(t, err)

	got, err := svc.UpdateRecordBatches.SelectBySchoolYearAndSemester(ctx, intPtr(112), intPtr(2))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "112-2 轉出", got[0].Name)
}
