package permrec

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

// Attribute keys kept in UpdateRecord.Attributes.
const (
	AttrPreviousSchool             = "PreviousSchool"
	AttrPreviousStudentNumber      = "PreviousStudentNumber"
	AttrPreviousDepartment         = "PreviousDepartment"
	AttrPreviousSchoolLastADDate   = "PreviousSchoolLastADDate"
	AttrPreviousSchoolLastADNumber = "PreviousSchoolLastADNumber"
	AttrPreviousGradeYear          = "PreviousGradeYear"
	AttrPreviousSemester           = "PreviousSemester"
	AttrGraduateSchoolLocationCode = "GraduateSchoolLocationCode"
	AttrGraduateSchool             = "GraduateSchool"
	AttrGraduateSchoolCode         = "GraduateSchoolCode"
	AttrGraduateCertificateNumber  = "GraduateCertificateNumber"
	AttrLastUpdateCode             = "LastUpdateCode"
	AttrNewStudentNumber           = "NewStudentNumber"
	AttrNewData                    = "NewData"
	AttrClassType                  = "ClassType"
	AttrOldClassType               = "OldClassType"
)

// Attr returns the attribute as text, or "" when unset.
func (r UpdateRecord) Attr(key string) string {
	v, ok := r.Attributes[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SetAttr stores value under key; an empty value removes the key.
func (r *UpdateRecord) SetAttr(key, value string) {
	if value == "" {
		delete(r.Attributes, key)
		return
	}
	if r.Attributes == nil {
		r.Attributes = datatypes.JSONMap{}
	}
	r.Attributes[key] = value
}

func (r UpdateRecord) PreviousSchool() string        { return r.Attr(AttrPreviousSchool) }
func (r UpdateRecord) PreviousStudentNumber() string { return r.Attr(AttrPreviousStudentNumber) }
func (r UpdateRecord) PreviousDepartment() string    { return r.Attr(AttrPreviousDepartment) }
func (r UpdateRecord) GraduateSchool() string        { return r.Attr(AttrGraduateSchool) }
func (r UpdateRecord) GraduateSchoolCode() string    { return r.Attr(AttrGraduateSchoolCode) }
func (r UpdateRecord) LastUpdateCode() string        { return r.Attr(AttrLastUpdateCode) }
func (r UpdateRecord) NewStudentNumber() string      { return r.Attr(AttrNewStudentNumber) }
func (r UpdateRecord) NewData() string               { return r.Attr(AttrNewData) }
func (r UpdateRecord) ClassType() string             { return r.Attr(AttrClassType) }
func (r UpdateRecord) OldClassType() string          { return r.Attr(AttrOldClassType) }

func (r UpdateRecord) PreviousGradeYear() *int {
	return util.ParseIntPtr(r.Attr(AttrPreviousGradeYear))
}

func (r UpdateRecord) PreviousSemester() *int {
	return util.ParseIntPtr(r.Attr(AttrPreviousSemester))
}

type UpdateRecordService struct {
	*store.Facade[UpdateRecord, *UpdateRecord]
}

func NewUpdateRecordService(db *gorm.DB, log *zap.Logger) *UpdateRecordService {
	return &UpdateRecordService{Facade: store.NewFacade[UpdateRecord](db, log)}
}

func (s *UpdateRecordService) SelectByStudentID(ctx context.Context, studentID string) ([]UpdateRecord, error) {
	return s.SelectByStudentIDs(ctx, studentID)
}

func (s *UpdateRecordService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]UpdateRecord, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []UpdateRecord{}, nil
	}
	return s.Where(ctx, "ref_student_id IN ?", studentIDs)
}

func (s *UpdateRecordService) SelectByStudents(ctx context.Context, students []Student) ([]UpdateRecord, error) {
	return s.SelectByStudentIDs(ctx, studentIDs(students)...)
}

func (s *UpdateRecordService) SelectByUpdateCodes(ctx context.Context, codes ...string) ([]UpdateRecord, error) {
	codes = util.CompactIDs(codes)
	if len(codes) == 0 {
		return []UpdateRecord{}, nil
	}
	return s.Where(ctx, "update_code IN ?", codes)
}

type UpdateRecordBatchService struct {
	*store.Facade[UpdateRecordBatch, *UpdateRecordBatch]
}

func NewUpdateRecordBatchService(db *gorm.DB, log *zap.Logger) *UpdateRecordBatchService {
	return &UpdateRecordBatchService{Facade: store.NewFacade[UpdateRecordBatch](db, log)}
}

func (s *UpdateRecordBatchService) SelectBySchoolYearAndSemester(ctx context.Context, schoolYear, semester *int) ([]UpdateRecordBatch, error) {
	return s.Find(ctx, term(schoolYear, semester), store.OrderByID)
}
