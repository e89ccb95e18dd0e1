package behavior

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

// DisciplineQuery filters discipline rows. Date pairs are inclusive day
// ranges; nil bounds are open.
type DisciplineQuery struct {
	StudentIDs        []string
	StartDate         *time.Time
	EndDate           *time.Time
	StartRegisterDate *time.Time
	EndRegisterDate   *time.Time
	StartClearDate    *time.Time
	EndClearDate      *time.Time
	SchoolYears       []int
	Semesters         []int
	Terms             []Term
}

// DisciplineService reads and writes the discipline table. Merit and demerit
// services are the same service pinned to one flag: they only read, update
// or delete rows of that flag, and their inserts set it.
type DisciplineService struct {
	*store.Facade[Discipline, *Discipline]
	flag *int
}

func NewDisciplineService(db *gorm.DB, log *zap.Logger) *DisciplineService {
	return &DisciplineService{Facade: store.NewFacade[Discipline](db, log)}
}

func NewMeritService(db *gorm.DB, log *zap.Logger) *DisciplineService {
	return newFlaggedService(db, FlagMerit, log)
}

func NewDemeritService(db *gorm.DB, log *zap.Logger) *DisciplineService {
	return newFlaggedService(db, FlagDemerit, log)
}

func newFlaggedService(db *gorm.DB, flag int, log *zap.Logger) *DisciplineService {
	s := NewDisciplineService(db, log)
	s.flag = intPtr(flag)
	s.WriteScope = s.flagged
	return s
}

func intPtr(v int) *int { return &v }

func (s *DisciplineService) flagged(db *gorm.DB) *gorm.DB {
	if s.flag == nil {
		return db
	}
	return db.Where("merit_flag = ?", *s.flag)
}

func (s *DisciplineService) SelectAll(ctx context.Context) ([]Discipline, error) {
	return s.Find(ctx, s.flagged, store.OrderByID)
}

func (s *DisciplineService) SelectByID(ctx context.Context, id string) (*Discipline, error) {
	recs, err := s.SelectByIDs(ctx, id)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (s *DisciplineService) SelectByIDs(ctx context.Context, ids ...string) ([]Discipline, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return []Discipline{}, nil
	}
	return s.Find(ctx, s.flagged, inIDs("id", ids), store.OrderByID)
}

func (s *DisciplineService) Select(ctx context.Context, q DisciplineQuery) ([]Discipline, error) {
	return s.Find(ctx,
		s.flagged,
		inIDs("ref_student_id", q.StudentIDs),
		dayRange("occur_date", q.StartDate, q.EndDate),
		dayRange("register_date", q.StartRegisterDate, q.EndRegisterDate),
		dayRange("clear_date", q.StartClearDate, q.EndClearDate),
		inInts("school_year", q.SchoolYears),
		inInts("semester", q.Semesters),
		inTerms(q.Terms),
		store.OrderByID,
	)
}

// SelectBySchoolYearAndSemester returns nothing when no student is given.
func (s *DisciplineService) SelectBySchoolYearAndSemester(ctx context.Context, schoolYear, semester *int, studentIDs ...string) ([]Discipline, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []Discipline{}, nil
	}
	return s.Find(ctx, s.flagged, inIDs("ref_student_id", studentIDs), term(schoolYear, semester), store.OrderByID)
}

func (s *DisciplineService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]Discipline, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []Discipline{}, nil
	}
	return s.Select(ctx, DisciplineQuery{StudentIDs: studentIDs})
}

// SelectByOccurDate filters by the listed students, or by none when the list
// is empty.
func (s *DisciplineService) SelectByOccurDate(ctx context.Context, studentIDs []string, start, end *time.Time) ([]Discipline, error) {
	return s.Select(ctx, DisciplineQuery{StudentIDs: studentIDs, StartDate: start, EndDate: end})
}

func (s *DisciplineService) SelectByRegisterDate(ctx context.Context, studentIDs []string, start, end *time.Time) ([]Discipline, error) {
	return s.Select(ctx, DisciplineQuery{StudentIDs: studentIDs, StartRegisterDate: start, EndRegisterDate: end})
}

func (s *DisciplineService) pin(recs []*Discipline) {
	if s.flag == nil {
		return
	}
	for _, r := range recs {
		if r != nil {
			r.MeritFlag = *s.flag
		}
	}
}

func (s *DisciplineService) Insert(ctx context.Context, recs ...*Discipline) ([]string, error) {
	s.pin(recs)
	return s.Facade.Insert(ctx, recs...)
}

func (s *DisciplineService) InsertOne(ctx context.Context, rec *Discipline) (string, error) {
	ids, err := s.Insert(ctx, rec)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (s *DisciplineService) Update(ctx context.Context, recs ...*Discipline) (int, error) {
	s.pin(recs)
	return s.Facade.Update(ctx, recs...)
}

func (s *DisciplineService) UpdateOne(ctx context.Context, rec *Discipline) (int, error) {
	return s.Update(ctx, rec)
}
