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
	schoolYearScoreSelectService = "SmartSchool.Score.GetSchoolYearSubjectScore"
	schoolYearScoreUpdateService = "SmartSchool.Score.UpdateSchoolYearSubjectScore"
	schoolYearScoreDeleteService = "SmartSchool.Score.DeleteSchoolYearSubjectScore"
)

// SchoolYearSubject is <Subject 學年成績="" 科目=""/>.
type SchoolYearSubject struct {
	Subject string   `json:"subject"`
	Score   *float64 `json:"score"`
}

func (s *SchoolYearSubject) Load(el *etree.Element) {
	s.Subject = dsa.Attr(el, "科目")
	s.Score = util.ParseDecimal(dsa.Attr(el, "學年成績"))
}

func (s SchoolYearSubject) ToXML() *etree.Element {
	el := etree.NewElement("Subject")
	el.CreateAttr("學年成績", util.FormatDecimal(s.Score))
	el.CreateAttr("科目", s.Subject)
	return el
}

type SchoolYearScore struct {
	ID           string              `json:"id"`
	RefStudentID string              `json:"ref_student_id"`
	SchoolYear   int                 `json:"school_year"`
	GradeYear    int                 `json:"grade_year"`
	Subjects     []SchoolYearSubject `json:"subjects"`
}

func (r *SchoolYearScore) Load(el *etree.Element) {
	r.ID = dsa.Attr(el, "ID")
	r.RefStudentID = dsa.Text(el, "RefStudentId")
	r.SchoolYear = util.ParseInt(dsa.Text(el, "SchoolYear"), 0)
	r.GradeYear = util.ParseInt(dsa.Text(el, "GradeYear"), 0)
	r.Subjects = []SchoolYearSubject{}
	for _, sub := range dsa.Elements(el, "ScoreInfo/SchoolYearSubjectScore/Subject") {
		var s SchoolYearSubject
		s.Load(sub)
		r.Subjects = append(r.Subjects, s)
	}
}

type SchoolYearScoreService struct {
	Caller dsa.Caller
	Batch  batch.Options
	Log    *zap.Logger
}

func NewSchoolYearScoreService(c dsa.Caller, opts batch.Options, log *zap.Logger) *SchoolYearScoreService {
	return &SchoolYearScoreService{Caller: c, Batch: opts, Log: logger.OrNop(log)}
}

func (s *SchoolYearScoreService) SelectByStudentIDs(ctx context.Context, studentIDs ...string) ([]SchoolYearScore, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []SchoolYearScore{}, nil
	}
	req, cond := newSelect("GetSchoolYearSubjectScore",
		"ID", "RefStudentId", "SchoolYear", "Semester", "GradeYear", "ScoreInfo")
	addIDs(cond, "StudentIDList", studentIDs)

	resp, err := s.Caller.Call(ctx, schoolYearScoreSelectService, req)
	if err != nil {
		return nil, errors.Wrap(err, "select school year score")
	}
	out := []SchoolYearScore{}
	for _, el := range dsa.Elements(resp, "SchoolYearSubjectScore") {
		var r SchoolYearScore
		r.Load(el)
		out = append(out, r)
	}
	return out, nil
}

func schoolYearScoreUpdate(recs []SchoolYearScore) *etree.Element {
	req := dsa.NewRequest("UpdateRequest")
	for _, r := range recs {
		el := dsa.Add(req, "SchoolYearSubjectScore")
		dsa.Add(el, "Field/RefStudentId", r.RefStudentID)
		dsa.Add(el, "Field/SchoolYear", strconv.Itoa(r.SchoolYear))
		dsa.Add(el, "Field/GradeYear", strconv.Itoa(r.GradeYear))
		info := dsa.Add(el, "Field/ScoreInfo/SchoolYearSubjectScore")
		for _, sub := range r.Subjects {
			info.AddChild(sub.ToXML())
		}
		dsa.Add(el, "Condition/ID", r.ID)
	}
	return req
}

func (s *SchoolYearScoreService) Update(ctx context.Context, recs ...SchoolYearScore) (int, error) {
	w := batch.For[SchoolYearScore](s.Batch)
	n, err := w.Run(ctx, recs, func(ctx context.Context, pkg []SchoolYearScore) (int, error) {
		return execute(ctx, s.Caller, schoolYearScoreUpdateService, schoolYearScoreUpdate(pkg))
	})
	if err != nil {
		s.Log.Error("update school year score", zap.Int("records", len(recs)), zap.Error(err))
	}
	return n, err
}

func (s *SchoolYearScoreService) DeleteByIDs(ctx context.Context, ids ...string) (int, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	w := batch.For[string](s.Batch)
	n, err := w.Run(ctx, ids, func(ctx context.Context, pkg []string) (int, error) {
		return execute(ctx, s.Caller, schoolYearScoreDeleteService, deleteRequest("SchoolYearSubjectScore", pkg))
	})
	if err != nil {
		s.Log.Error("delete school year score", zap.Int("records", len(ids)), zap.Error(err))
	}
	return n, err
}

func (s *SchoolYearScoreService) DeleteByID(ctx context.Context, id string) (int, error) {
	return s.DeleteByIDs(ctx, id)
}

func (s *SchoolYearScoreService) Delete(ctx context.Context, recs ...SchoolYearScore) (int, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return s.DeleteByIDs(ctx, ids...)
}
