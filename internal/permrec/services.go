package permrec

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/curriculum"
	"shschool-data/internal/dsa"
)

// Services bundles every enrollment-record service over one database and
// one remote caller.
type Services struct {
	Students            *StudentService
	Classes             *ClassService
	Teachers            *TeacherService
	Departments         *DepartmentService
	Courses             *CourseService
	TagConfigs          *TagConfigService
	StudentTags         *StudentTagService
	ClassTags           *ClassTagService
	TeacherTags         *TeacherTagService
	CourseTags          *CourseTagService
	Addresses           *AddressService
	Phones              *PhoneService
	Parents             *ParentService
	BeforeEnrollments   *BeforeEnrollmentService
	LeaveInfos          *LeaveInfoService
	SemesterHistories   *SemesterHistoryService
	UpdateRecords       *UpdateRecordService
	UpdateRecordBatches *UpdateRecordBatchService
	PermrecStatus       *PermrecStatusMappingService
	UpdateCodes         *UpdateCodeMappingService
	Resolver            *Resolver
}

func New(db *gorm.DB, caller dsa.Caller, cur *curriculum.Services, log *zap.Logger) *Services {
	configs := NewTagConfigService(db, log)
	s := &Services{
		Students:            NewStudentService(db, log),
		Classes:             NewClassService(db, log),
		Teachers:            NewTeacherService(db, log),
		Departments:         NewDepartmentService(db, log),
		Courses:             NewCourseService(db, log),
		TagConfigs:          configs,
		StudentTags:         NewTagService[StudentTag](db, configs, log),
		ClassTags:           NewTagService[ClassTag](db, configs, log),
		TeacherTags:         NewTagService[TeacherTag](db, configs, log),
		CourseTags:          NewTagService[CourseTag](db, configs, log),
		Addresses:           NewStudentInfoService[Address](db, log),
		Phones:              NewStudentInfoService[Phone](db, log),
		Parents:             NewStudentInfoService[Parent](db, log),
		BeforeEnrollments:   NewStudentInfoService[BeforeEnrollment](db, log),
		LeaveInfos:          NewStudentInfoService[LeaveInfo](db, log),
		SemesterHistories:   NewSemesterHistoryService(db, log),
		UpdateRecords:       NewUpdateRecordService(db, log),
		UpdateRecordBatches: NewUpdateRecordBatchService(db, log),
		UpdateCodes:         NewUpdateCodeMappingService(caller, log),
	}
	s.PermrecStatus = NewPermrecStatusMappingService(caller, s.StudentTags, log)
	s.Resolver = &Resolver{
		Students:         s.Students,
		Classes:          s.Classes,
		Teachers:         s.Teachers,
		Departments:      s.Departments,
		ProgramPlans:     cur.ProgramPlans,
		ScoreCalcRules:   cur.ScoreCalcRules,
		AssessmentSetups: cur.AssessmentSetups,
	}
	return s
}

// Models lists the gorm-managed tables, for migrations in local mode.
func Models() []any {
	return []any{
		&Student{}, &Class{}, &Teacher{}, &Course{},
		&TagConfig{}, &StudentTag{}, &ClassTag{}, &TeacherTag{}, &CourseTag{},
		&Address{}, &Phone{}, &Parent{}, &BeforeEnrollment{}, &LeaveInfo{},
		&SemesterHistory{}, &UpdateRecord{}, &UpdateRecordBatch{},
	}
}

// DepartmentDDL creates the dept table in local sqlite mode; it is not
// gorm-managed.
const DepartmentDDL = `CREATE TABLE IF NOT EXISTS dept (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '',
	code TEXT NOT NULL DEFAULT '',
	ref_teacher_id TEXT
)`
