package evaluation

import (
	"context"
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/batch"
	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
	"shschool-data/internal/util"
)

const (
	semesterEntrySelectService   = "SmartSchool.Score.GetSemesterEntryScore"
	semesterEntryDeleteService   = "SmartSchool.Score.DeleteSemesterEntryScore"
	schoolYearEntrySelectService = "SmartSchool.Score.GetSchoolYearEntryScore"
)

// Entry groups and the entry that is their main score.
const (
	GroupLearning = "學習"
	GroupBehavior = "行為"
	EntryAcademic = "學業"
	EntryMorality = "德行"
)

// EntryScores is the part shared by semester and school-year entry scores.
type EntryScores struct {
	Group       string             `json:"entry_group"`
	Scores      map[string]float64 `json:"scores"`
	ClassRating []RankingInfo      `json:"class_rating"`
	YearRating  []RankingInfo      `json:"year_rating"`
	DeptRating  []RankingInfo      `json:"dept_rating"`
}

func (e EntryScores) mainEntry() string {
	switch e.Group {
	case GroupLearning:
		return EntryAcademic
	case GroupBehavior:
		return EntryMorality
	}
	return ""
}

// GroupMainScore is the 學業 score of a 學習 group or the 德行 score of a
// 行為 group, and 0 otherwise.
func (e EntryScores) GroupMainScore() float64 {
	if name := e.mainEntry(); name != "" {
		return e.Scores[name]
	}
	return 0
}

func (e EntryScores) GroupMainClassRating() *int { return e.groupRating(e.ClassRating) }
func (e EntryScores) GroupYearRating() *int      { return e.groupRating(e.YearRating) }
func (e EntryScores) GroupDeptRating() *int      { return e.groupRating(e.DeptRating) }

func (e EntryScores) groupRating(list []RankingInfo) *int {
	name := e.mainEntry()
	if name == "" {
		return nil
	}
	return rankingOf(list, name)
}

func (e *EntryScores) load(el *etree.Element, scorePath string) {
	e.Group = dsa.Text(el, "EntryGroup")
	e.Scores = map[string]float64{}
	for _, entry := range dsa.Elements(el, scorePath) {
		name := dsa.Attr(entry, "分項")
		if _, dup := e.Scores[name]; dup {
			continue
		}
		var v float64
		if p := util.ParseDecimal(dsa.Attr(entry, "成績")); p != nil {
			v = *p
		}
		e.Scores[name] = v
	}
	e.ClassRating = loadRankings(el, "ClassRating", RankByEntry)
	e.YearRating = loadRankings(el, "YearRating", RankByEntry)
	e.DeptRating = loadRankings(el, "DeptRating", RankByEntry)
}

type SemesterEntryScore struct {
	ID           string `json:"id"`
	RefStudentID string `json:"ref_student_id"`
	SchoolYear   int    `json:"school_year"`
	Semester     int    `json:"semester"`
	GradeYear    int    `json:"grade_year"`
	EntryScores
}

func (r SemesterEntryScore) StudentID() string { return r.RefStudentID }

func (r SemesterEntryScore) Term() (int, int, int) { return r.GradeYear, r.Semester, r.SchoolYear }

func (r *SemesterEntryScore) Load(el *etree.Element) {
	r.ID = dsa.Attr(el, "ID")
	r.RefStudentID = dsa.Text(el, "RefStudentId")
	r.SchoolYear = util.ParseInt(dsa.Text(el, "SchoolYear"), 0)
	r.Semester = util.ParseInt(dsa.Text(el, "Semester"), 0)
	r.GradeYear = util.ParseInt(dsa.Text(el, "GradeYear"), 0)
	r.load(el, "ScoreInfo/SemesterEntryScore/Entry")
}

// SemesterEntryQuery narrows a semester entry score select. Empty fields do
// not filter.
type SemesterEntryQuery struct {
	IDs        []string
	StudentIDs []string
	EntryGroup string
	Terms      []SchoolYearSemester
}

type SemesterEntryScoreService struct {
	Caller dsa.Caller
	Batch  batch.Options
	Log    *zap.Logger
}

func NewSemesterEntryScoreService(c dsa.Caller, opts batch.Options, log *zap.Logger) *SemesterEntryScoreService {
	return &SemesterEntryScoreService{Caller: c, Batch: opts, Log: logger.OrNop(log)}
}

// Select runs the query and, when filterRepeat is set, drops records of the
// queried students superseded by a repeated grade.
func (s *SemesterEntryScoreService) Select(ctx context.Context, q SemesterEntryQuery, filterRepeat bool) ([]SemesterEntryScore, error) {
	req, cond := newSelect("GetSemesterEntryScore",
		"ID", "RefStudentId", "SchoolYear", "Semester", "GradeYear", "EntryGroup",
		"ScoreInfo", "ClassRating", "DeptRating", "YearRating")
	addIDs(cond, "IDList", q.IDs)
	addIDs(cond, "StudentIDList", q.StudentIDs)
	if q.EntryGroup != "" {
		cond.CreateElement("EntryGroup").SetText(q.EntryGroup)
	}
	if len(q.Terms) > 0 {
		or := cond.CreateElement("Or")
		for _, t := range q.Terms {
			and := or.CreateElement("And")
			and.CreateElement("SchoolYear").SetText(strconv.Itoa(t.SchoolYear))
			and.CreateElement("Semester").SetText(strconv.Itoa(t.Semester))
		}
	}

	resp, err := s.Caller.Call(ctx, semesterEntrySelectService, req)
	if err != nil {
		return nil, errors.Wrap(err, "select semester entry score")
	}
	out := []SemesterEntryScore{}
	for _, el := range dsa.Elements(resp, "SemesterEntryScore") {
		var r SemesterEntryScore
		r.Load(el)
		out = append(out, r)
	}
	if filterRepeat {
		out = FilterRepeated(out, util.CompactIDs(q.StudentIDs))
	}
	return out, nil
}

func (s *SemesterEntryScoreService) SelectByStudentIDs(ctx context.Context, studentIDs []string, filterRepeat bool) ([]SemesterEntryScore, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []SemesterEntryScore{}, nil
	}
	return s.Select(ctx, SemesterEntryQuery{StudentIDs: studentIDs}, filterRepeat)
}

func (s *SemesterEntryScoreService) DeleteByIDs(ctx context.Context, ids ...string) (int, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	w := batch.For[string](s.Batch)
	n, err := w.Run(ctx, ids, func(ctx context.Context, pkg []string) (int, error) {
		return execute(ctx, s.Caller, semesterEntryDeleteService, deleteRequest("SemesterEntryScore", pkg))
	})
	if err != nil {
		s.Log.Error("delete semester entry score", zap.Int("records", len(ids)), zap.Error(err))
	}
	return n, err
}

func (s *SemesterEntryScoreService) DeleteByID(ctx context.Context, id string) (int, error) {
	return s.DeleteByIDs(ctx, id)
}

func (s *SemesterEntryScoreService) Delete(ctx context.Context, recs ...SemesterEntryScore) (int, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return s.DeleteByIDs(ctx, ids...)
}

type SchoolYearEntryScore struct {
	ID           string `json:"id"`
	RefStudentID string `json:"ref_student_id"`
	SchoolYear   int    `json:"school_year"`
	GradeYear    int    `json:"grade_year"`
	EntryScores
}

func (r *SchoolYearEntryScore) Load(el *etree.Element) {
	r.ID = dsa.Attr(el, "ID")
	r.RefStudentID = dsa.Text(el, "RefStudentId")
	r.SchoolYear = util.ParseInt(dsa.Text(el, "SchoolYear"), 0)
	r.GradeYear = util.ParseInt(dsa.Text(el, "GradeYear"), 0)
	r.load(el, "ScoreInfo/SchoolYearEntryScore/Entry")
}

type SchoolYearEntryQuery struct {
	IDs         []string
	StudentIDs  []string
	EntryGroup  string
	SchoolYears []int
}

type SchoolYearEntryScoreService struct {
	Caller dsa.Caller
	Log    *zap.Logger
}

func NewSchoolYearEntryScoreService(c dsa.Caller, log *zap.Logger) *SchoolYearEntryScoreService {
	return &SchoolYearEntryScoreService{Caller: c, Log: logger.OrNop(log)}
}

func (s *SchoolYearEntryScoreService) Select(ctx context.Context, q SchoolYearEntryQuery) ([]SchoolYearEntryScore, error) {
	req, cond := newSelect("GetSchoolYearEntryScore",
		"ID", "RefStudentId", "SchoolYear", "GradeYear", "EntryGroup",
		"ScoreInfo", "ClassRating", "DeptRating", "YearRating")
	addIDs(cond, "IDList", q.IDs)
	addIDs(cond, "StudentIDList", q.StudentIDs)
	if q.EntryGroup != "" {
		cond.CreateElement("EntryGroup").SetText(q.EntryGroup)
	}
	for _, sy := range q.SchoolYears {
		cond.CreateElement("SchoolYear").SetText(strconv.Itoa(sy))
	}

	resp, err := s.Caller.Call(ctx, schoolYearEntrySelectService, req)
	if err != nil {
		return nil, errors.Wrap(err, "select school year entry score")
	}
	out := []SchoolYearEntryScore{}
	for _, el := range dsa.Elements(resp, "SchoolYearEntryScore") {
		var r SchoolYearEntryScore
		r.Load(el)
		out = append(out, r)
	}
	return out, nil
}

func (s *SchoolYearEntryScoreService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]SchoolYearEntryScore, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []SchoolYearEntryScore{}, nil
	}
	return s.Select(ctx, SchoolYearEntryQuery{StudentIDs: studentIDs})
}
