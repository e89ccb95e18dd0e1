package behavior

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/permrec"
	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

// AttendanceQuery filters attendance. Empty fields do not filter; OccurDates
// match whole days.
type AttendanceQuery struct {
	StudentIDs  []string
	StartDate   *time.Time
	EndDate     *time.Time
	OccurDates  []time.Time
	SchoolYears []int
	Semesters   []int
	Terms       []Term
}

type AttendanceService struct {
	*store.Facade[Attendance, *Attendance]
}

func NewAttendanceService(db *gorm.DB, log *zap.Logger) *AttendanceService {
	return &AttendanceService{Facade: store.NewFacade[Attendance](db, log)}
}

func (s *AttendanceService) Select(ctx context.Context, q AttendanceQuery) ([]Attendance, error) {
	return s.Find(ctx,
		inIDs("ref_student_id", q.StudentIDs),
		dayRange("occur_date", q.StartDate, q.EndDate),
		onDays("occur_date", q.OccurDates),
		inInts("school_year", q.SchoolYears),
		inInts("semester", q.Semesters),
		inTerms(q.Terms),
		store.OrderByID,
	)
}

// SelectByDate returns the attendance between begin and end, for the given
// students or for everyone when none are given.
func (s *AttendanceService) SelectByDate(ctx context.Context, begin, end time.Time, studentIDs ...string) ([]Attendance, error) {
	return s.Select(ctx, AttendanceQuery{StudentIDs: studentIDs, StartDate: &begin, EndDate: &end})
}

// SelectBySchoolYearAndSemester returns nothing when no student is given. A
// nil school year or semester leaves that column unfiltered.
func (s *AttendanceService) SelectBySchoolYearAndSemester(ctx context.Context, schoolYear, semester *int, studentIDs ...string) ([]Attendance, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []Attendance{}, nil
	}
	return s.Find(ctx, inIDs("ref_student_id", studentIDs), term(schoolYear, semester), store.OrderByID)
}

func (s *AttendanceService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]Attendance, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []Attendance{}, nil
	}
	return s.Select(ctx, AttendanceQuery{StudentIDs: studentIDs})
}

func (s *AttendanceService) SelectByStudents(ctx context.Context, students []permrec.Student) ([]Attendance, error) {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return s.SelectByStudentIDs(ctx, ids...)
}

// SelectAllAttendancePeriod flattens the periods of every attendance record.
func (s *AttendanceService) SelectAllAttendancePeriod(ctx context.Context) ([]AttendancePeriod, error) {
	recs, err := s.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []AttendancePeriod{}
	for _, r := range recs {
		out = append(out, r.Periods...)
	}
	return out, nil
}
