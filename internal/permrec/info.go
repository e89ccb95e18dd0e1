package permrec

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

// StudentInfoService serves the per-student tables that hold at most one
// row per student.
type StudentInfoService[T any, P store.Record[T]] struct {
	*store.Facade[T, P]
}

type (
	AddressService          = StudentInfoService[Address, *Address]
	PhoneService            = StudentInfoService[Phone, *Phone]
	ParentService           = StudentInfoService[Parent, *Parent]
	BeforeEnrollmentService = StudentInfoService[BeforeEnrollment, *BeforeEnrollment]
	LeaveInfoService        = StudentInfoService[LeaveInfo, *LeaveInfo]
)

func NewStudentInfoService[T any, P store.Record[T]](db *gorm.DB, log *zap.Logger) *StudentInfoService[T, P] {
	return &StudentInfoService[T, P]{Facade: store.NewFacade[T, P](db, log)}
}

// SelectByStudentID returns nil when the student has no row.
func (s *StudentInfoService[T, P]) SelectByStudentID(ctx context.Context, studentID string) (*T, error) {
	recs, err := s.SelectByStudentIDs(ctx, studentID)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (s *StudentInfoService[T, P]) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]T, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []T{}, nil
	}
	return s.Where(ctx, "ref_student_id IN ?", studentIDs)
}

func (s *StudentInfoService[T, P]) SelectByStudents(ctx context.Context, students []Student) ([]T, error) {
	return s.SelectByStudentIDs(ctx, studentIDs(students)...)
}

func studentIDs(students []Student) []string {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}

type SemesterHistoryService struct {
	*StudentInfoService[SemesterHistory, *SemesterHistory]
}

func NewSemesterHistoryService(db *gorm.DB, log *zap.Logger) *SemesterHistoryService {
	return &SemesterHistoryService{StudentInfoService: NewStudentInfoService[SemesterHistory](db, log)}
}

// SelectAllDetail flattens every history into one row per semester.
func (s *SemesterHistoryService) SelectAllDetail(ctx context.Context) ([]SemesterHistoryItem, error) {
	all, err := s.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []SemesterHistoryItem{}
	for _, h := range all {
		for _, item := range h.Items {
			item.RefStudentID = h.RefStudentID
			out = append(out, item)
		}
	}
	return out, nil
}
