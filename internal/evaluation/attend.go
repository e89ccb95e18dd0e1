package evaluation

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/permrec"
	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

func inIDs(column string, ids []string) store.Scope {
	ids = util.CompactIDs(ids)
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where(column+" IN ?", ids)
	}
}

// SCAttendQuery filters course attendance. Empty fields do not filter; the
// school year and semester are those of the course.
type SCAttendQuery struct {
	StudentIDs []string
	CourseIDs  []string
	IDs        []string
	SchoolYear *int
	Semester   *int
}

type SCAttendService struct {
	*store.Facade[SCAttend, *SCAttend]
}

func NewSCAttendService(db *gorm.DB, log *zap.Logger) *SCAttendService {
	return &SCAttendService{Facade: store.NewFacade[SCAttend](db, log)}
}

func (s *SCAttendService) Select(ctx context.Context, q SCAttendQuery) ([]SCAttend, error) {
	scopes := []store.Scope{
		inIDs("sc_attend.ref_student_id", q.StudentIDs),
		inIDs("sc_attend.ref_course_id", q.CourseIDs),
		inIDs("sc_attend.id", q.IDs),
	}
	if q.SchoolYear != nil || q.Semester != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			db = db.Joins("JOIN course ON course.id = sc_attend.ref_course_id")
			if q.SchoolYear != nil {
				db = db.Where("course.school_year = ?", *q.SchoolYear)
			}
			if q.Semester != nil {
				db = db.Where("course.semester = ?", *q.Semester)
			}
			return db
		})
	}
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Select("sc_attend.*").Order("sc_attend.id")
	})
	return s.Find(ctx, scopes...)
}

func (s *SCAttendService) SelectByStudentIDAndCourseID(ctx context.Context, studentIDs, courseIDs []string) ([]SCAttend, error) {
	return s.Select(ctx, SCAttendQuery{StudentIDs: studentIDs, CourseIDs: courseIDs})
}

func (s *SCAttendService) SelectByStudentID(ctx context.Context, studentID string) ([]SCAttend, error) {
	return s.SelectByStudentIDs(ctx, studentID)
}

func (s *SCAttendService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]SCAttend, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []SCAttend{}, nil
	}
	return s.Select(ctx, SCAttendQuery{StudentIDs: studentIDs})
}

// Required is the override when set, else the course's flag.
func (a SCAttend) Required(c permrec.Course) bool {
	if a.OverrideRequired != nil {
		return *a.OverrideRequired
	}
	return c.Required
}

// RequiredBy is the override when set, else the course's value.
func (a SCAttend) RequiredBy(c permrec.Course) string {
	if a.OverrideRequiredBy != "" {
		return a.OverrideRequiredBy
	}
	return c.RequiredBy
}

// SCETakeQuery filters exam results; course and student come from the
// attendance row.
type SCETakeQuery struct {
	CourseIDs   []string
	StudentIDs  []string
	ExamIDs     []string
	IDs         []string
	SCAttendIDs []string
}

type SCETakeService struct {
	*store.Facade[SCETake, *SCETake]
}

func NewSCETakeService(db *gorm.DB, log *zap.Logger) *SCETakeService {
	return &SCETakeService{Facade: store.NewFacade[SCETake](db, log)}
}

func (s *SCETakeService) Select(ctx context.Context, q SCETakeQuery) ([]SCETake, error) {
	scopes := []store.Scope{
		inIDs("sce_take.ref_exam_id", q.ExamIDs),
		inIDs("sce_take.id", q.IDs),
		inIDs("sce_take.ref_sc_attend_id", q.SCAttendIDs),
	}
	if len(util.CompactIDs(q.CourseIDs)) > 0 || len(util.CompactIDs(q.StudentIDs)) > 0 {
		scopes = append(scopes,
			func(db *gorm.DB) *gorm.DB {
				return db.Joins("JOIN sc_attend ON sc_attend.id = sce_take.ref_sc_attend_id")
			},
			inIDs("sc_attend.ref_course_id", q.CourseIDs),
			inIDs("sc_attend.ref_student_id", q.StudentIDs),
		)
	}
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Select("sce_take.*").Order("sce_take.id")
	})
	return s.Find(ctx, scopes...)
}

func (s *SCETakeService) SelectByCourseAndExam(ctx context.Context, examID string, courseIDs ...string) ([]SCETake, error) {
	if len(util.CompactIDs(courseIDs)) == 0 {
		return []SCETake{}, nil
	}
	return s.Select(ctx, SCETakeQuery{CourseIDs: courseIDs, ExamIDs: []string{examID}})
}

func (s *SCETakeService) SelectByStudentAndCourse(ctx context.Context, studentIDs, courseIDs []string) ([]SCETake, error) {
	if len(util.CompactIDs(studentIDs)) == 0 && len(util.CompactIDs(courseIDs)) == 0 {
		return []SCETake{}, nil
	}
	return s.Select(ctx, SCETakeQuery{StudentIDs: studentIDs, CourseIDs: courseIDs})
}

func (s *SCETakeService) SelectByStudentID(ctx context.Context, studentID string) ([]SCETake, error) {
	return s.SelectByStudentIDs(ctx, studentID)
}

func (s *SCETakeService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]SCETake, error) {
	if len(util.CompactIDs(studentIDs)) == 0 {
		return []SCETake{}, nil
	}
	return s.Select(ctx, SCETakeQuery{StudentIDs: studentIDs})
}

type TCInstructService struct {
	*store.Facade[TCInstruct, *TCInstruct]
}

func NewTCInstructService(db *gorm.DB, log *zap.Logger) *TCInstructService {
	return &TCInstructService{Facade: store.NewFacade[TCInstruct](db, log)}
}

// SelectByTeacherIDAndCourseID filters by whichever list is non-empty.
func (s *TCInstructService) SelectByTeacherIDAndCourseID(ctx context.Context, teacherIDs, courseIDs []string) ([]TCInstruct, error) {
	return s.Find(ctx, inIDs("ref_teacher_id", teacherIDs), inIDs("ref_course_id", courseIDs), store.OrderByID)
}

// MoralScoreQuery filters conduct scores. Terms match any of the listed
// school year and semester pairs.
type MoralScoreQuery struct {
	IDs        []string
	StudentIDs []string
	SchoolYear *int
	Semester   *int
	Terms      []SchoolYearSemester
}

type MoralScoreService struct {
	*store.Facade[MoralScore, *MoralScore]
}

func NewMoralScoreService(db *gorm.DB, log *zap.Logger) *MoralScoreService {
	return &MoralScoreService{Facade: store.NewFacade[MoralScore](db, log)}
}

func (s *MoralScoreService) Select(ctx context.Context, q MoralScoreQuery) ([]MoralScore, error) {
	return s.Find(ctx,
		inIDs("id", q.IDs),
		inIDs("ref_student_id", q.StudentIDs),
		func(db *gorm.DB) *gorm.DB {
			if q.SchoolYear != nil {
				db = db.Where("school_year = ?", *q.SchoolYear)
			}
			if q.Semester != nil {
				db = db.Where("semester = ?", *q.Semester)
			}
			if len(q.Terms) > 0 {
				first := q.Terms[0]
				or := s.DB.Where("school_year = ? AND semester = ?", first.SchoolYear, first.Semester)
				for _, t := range q.Terms[1:] {
					or = or.Or("school_year = ? AND semester = ?", t.SchoolYear, t.Semester)
				}
				db = db.Where(or)
			}
			return db
		},
		store.OrderByID,
	)
}

// SelectBySchoolYearAndSemester returns nil when the student has no score
// for the term.
func (s *MoralScoreService) SelectBySchoolYearAndSemester(ctx context.Context, studentID string, schoolYear, semester int) (*MoralScore, error) {
	if studentID == "" {
		return nil, nil
	}
	recs, err := s.Select(ctx, MoralScoreQuery{StudentIDs: []string{studentID}, SchoolYear: &schoolYear, Semester: &semester})
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (s *MoralScoreService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]MoralScore, error) {
	if len(util.CompactIDs(studentIDs)) == 0 {
		return []MoralScore{}, nil
	}
	return s.Select(ctx, MoralScoreQuery{StudentIDs: studentIDs})
}
