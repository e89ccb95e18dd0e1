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
	"shschool-data/internal/permrec"
	"shschool-data/internal/util"
)

const (
	semesterScoreSelectService = "SmartSchool.Score.GetSemesterSubjectScore"
	semesterScoreUpdateService = "SmartSchool.Score.UpdateSemesterSubjectScore"
)

// SubjectScore is one <Subject> of a semester score. The first four fields
// are copied from the owning SemesterScore.
type SubjectScore struct {
	RefSemesterScoreID string `json:"ref_semester_score_id"`
	RefStudentID       string `json:"ref_student_id"`
	SchoolYear         int    `json:"school_year"`
	Semester           int    `json:"semester"`

	Subject             string   `json:"subject"`
	Credit              *float64 `json:"credit"`
	Required            bool     `json:"required"`
	Level               *int     `json:"level"`
	RequiredBy          string   `json:"required_by"`
	NotIncludedInCredit bool     `json:"not_included_in_credit"`
	NotIncludedInCalc   bool     `json:"not_included_in_calc"`
	Entry               string   `json:"entry"`

	Score                 *float64 `json:"score"`
	ScoreBetter           *float64 `json:"score_better"`
	ScoreSchoolYearAdjust *float64 `json:"score_school_year_adjust"`
	ScoreReExam           *float64 `json:"score_re_exam"`
	ScoreReCourse         *float64 `json:"score_re_course"`
	Pass                  bool     `json:"pass"`
	Comment               string   `json:"comment"`
}

// Load reads the subject attributes. The owning record fields are left as
// they are.
func (s *SubjectScore) Load(el *etree.Element) {
	s.Subject = dsa.Attr(el, "科目")
	s.Credit = util.ParseDecimal(dsa.Attr(el, "開課學分數"))
	s.Required = dsa.Attr(el, "修課必選修") == "必修"
	s.Level = util.ParseIntPtr(dsa.Attr(el, "科目級別"))
	s.RequiredBy = dsa.Attr(el, "修課校部訂")
	s.NotIncludedInCredit = util.ParseYesNo(dsa.Attr(el, "不計學分"))
	s.NotIncludedInCalc = util.ParseYesNo(dsa.Attr(el, "不需評分"))
	s.Entry = dsa.Attr(el, "開課分項類別")

	s.Score = util.ParseDecimal(dsa.Attr(el, "原始成績"))
	s.ScoreBetter = util.ParseDecimal(dsa.Attr(el, "擇優採計成績"))
	s.ScoreSchoolYearAdjust = util.ParseDecimal(dsa.Attr(el, "學年調整成績"))
	s.ScoreReExam = util.ParseDecimal(dsa.Attr(el, "補考成績"))
	s.ScoreReCourse = util.ParseDecimal(dsa.Attr(el, "重修成績"))
	s.Pass = util.ParseYesNo(dsa.Attr(el, "是否取得學分"))
	s.Comment = dsa.Attr(el, "註記")
}

func (s SubjectScore) ToXML() *etree.Element {
	required := "選修"
	if s.Required {
		required = "必修"
	}
	el := etree.NewElement("Subject")
	el.CreateAttr("不計學分", util.YesNo(s.NotIncludedInCredit))
	el.CreateAttr("不需評分", util.YesNo(s.NotIncludedInCalc))
	el.CreateAttr("修課必選修", required)
	el.CreateAttr("修課校部訂", s.RequiredBy)
	el.CreateAttr("原始成績", util.FormatDecimal(s.Score))
	el.CreateAttr("學年調整成績", util.FormatDecimal(s.ScoreSchoolYearAdjust))
	el.CreateAttr("擇優採計成績", util.FormatDecimal(s.ScoreBetter))
	el.CreateAttr("是否取得學分", util.YesNo(s.Pass))
	el.CreateAttr("科目", s.Subject)
	el.CreateAttr("科目級別", util.FormatIntPtr(s.Level))
	el.CreateAttr("補考成績", util.FormatDecimal(s.ScoreReExam))
	el.CreateAttr("註記", s.Comment)
	el.CreateAttr("重修成績", util.FormatDecimal(s.ScoreReCourse))
	el.CreateAttr("開課分項類別", s.Entry)
	el.CreateAttr("開課學分數", util.FormatDecimal(s.Credit))
	return el
}

// SemesterScore holds one student's subject scores for one term.
type SemesterScore struct {
	ID           string         `json:"id"`
	RefStudentID string         `json:"ref_student_id"`
	SchoolYear   int            `json:"school_year"`
	Semester     int            `json:"semester"`
	GradeYear    int            `json:"grade_year"`
	Subjects     []SubjectScore `json:"subjects"`
	ClassRating  []RankingInfo  `json:"class_rating"`
	YearRating   []RankingInfo  `json:"year_rating"`
	DeptRating   []RankingInfo  `json:"dept_rating"`
}

func (r SemesterScore) StudentID() string { return r.RefStudentID }

func (r SemesterScore) Term() (int, int, int) { return r.GradeYear, r.Semester, r.SchoolYear }

// Subject returns the score of one subject, or nil.
func (r *SemesterScore) Subject(name string) *SubjectScore {
	for i := range r.Subjects {
		if r.Subjects[i].Subject == name {
			return &r.Subjects[i]
		}
	}
	return nil
}

// SetSubject replaces the subject with the same name or appends s.
func (r *SemesterScore) SetSubject(s SubjectScore) {
	if cur := r.Subject(s.Subject); cur != nil {
		*cur = s
		return
	}
	r.Subjects = append(r.Subjects, s)
}

func (r *SemesterScore) Load(el *etree.Element) {
	r.ID = dsa.Attr(el, "ID")
	r.RefStudentID = dsa.Text(el, "RefStudentId")
	r.SchoolYear = util.ParseInt(dsa.Text(el, "SchoolYear"), 0)
	r.Semester = util.ParseInt(dsa.Text(el, "Semester"), 0)
	r.GradeYear = util.ParseInt(dsa.Text(el, "GradeYear"), 0)

	r.Subjects = []SubjectScore{}
	for _, sub := range dsa.Elements(el, "ScoreInfo/SemesterSubjectScoreInfo/Subject") {
		var s SubjectScore
		s.Load(sub)
		if r.Subject(s.Subject) != nil {
			continue
		}
		s.RefSemesterScoreID = r.ID
		s.RefStudentID = r.RefStudentID
		s.SchoolYear = r.SchoolYear
		s.Semester = r.Semester
		r.Subjects = append(r.Subjects, s)
	}

	r.ClassRating = loadRankings(el, "ClassRating", RankBySubject)
	r.YearRating = loadRankings(el, "YearRating", RankBySubject)
	r.DeptRating = loadRankings(el, "DeptRating", RankBySubject)
}

// SemesterScoreService reads and writes semester subject scores through the
// remote score service.
type SemesterScoreService struct {
	Caller dsa.Caller
	Batch  batch.Options
	Log    *zap.Logger
}

func NewSemesterScoreService(c dsa.Caller, opts batch.Options, log *zap.Logger) *SemesterScoreService {
	return &SemesterScoreService{Caller: c, Batch: opts, Log: logger.OrNop(log)}
}

func (s *SemesterScoreService) query(ctx context.Context, studentIDs []string) ([]SemesterScore, error) {
	req, cond := newSelect("GetSemesterSubjectScore",
		"ID", "RefStudentId", "SchoolYear", "Semester", "GradeYear",
		"ScoreInfo", "ClassRating", "DeptRating", "YearRating")
	addIDs(cond, "StudentIDList", studentIDs)

	resp, err := s.Caller.Call(ctx, semesterScoreSelectService, req)
	if err != nil {
		return nil, errors.Wrap(err, "select semester score")
	}
	out := []SemesterScore{}
	for _, el := range dsa.Elements(resp, "SemesterSubjectScore") {
		var r SemesterScore
		r.Load(el)
		out = append(out, r)
	}
	return out, nil
}

// SelectAll returns every semester score, unfiltered.
func (s *SemesterScoreService) SelectAll(ctx context.Context) ([]SemesterScore, error) {
	return s.query(ctx, nil)
}

// SelectAllSubjectScore flattens the subjects of every semester score.
func (s *SemesterScoreService) SelectAllSubjectScore(ctx context.Context) ([]SubjectScore, error) {
	recs, err := s.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []SubjectScore{}
	for _, r := range recs {
		out = append(out, r.Subjects...)
	}
	return out, nil
}

// SelectByStudentID returns an empty list for an empty id.
func (s *SemesterScoreService) SelectByStudentID(ctx context.Context, studentID string, filterRepeat bool) ([]SemesterScore, error) {
	if studentID == "" {
		return []SemesterScore{}, nil
	}
	return s.SelectByStudentIDs(ctx, []string{studentID}, filterRepeat)
}

func (s *SemesterScoreService) SelectByStudentIDs(ctx context.Context, studentIDs []string, filterRepeat bool) ([]SemesterScore, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []SemesterScore{}, nil
	}
	recs, err := s.query(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	if filterRepeat {
		recs = FilterRepeated(recs, studentIDs)
	}
	return recs, nil
}

func (s *SemesterScoreService) SelectByStudents(ctx context.Context, students []permrec.Student, filterRepeat bool) ([]SemesterScore, error) {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return s.SelectByStudentIDs(ctx, ids, filterRepeat)
}

func semesterScoreUpdate(recs []SemesterScore) *etree.Element {
	req := dsa.NewRequest("UpdateRequest")
	for _, r := range recs {
		el := dsa.Add(req, "SemesterSubjectScore")
		dsa.Add(el, "Field/RefStudentId", r.RefStudentID)
		dsa.Add(el, "Field/SchoolYear", strconv.Itoa(r.SchoolYear))
		dsa.Add(el, "Field/Semester", strconv.Itoa(r.Semester))
		dsa.Add(el, "Field/GradeYear", strconv.Itoa(r.GradeYear))
		info := dsa.Add(el, "Field/ScoreInfo/SemesterSubjectScoreInfo")
		for _, sub := range r.Subjects {
			info.AddChild(sub.ToXML())
		}
		dsa.Add(el, "Condition/ID", r.ID)
	}
	return req
}

// Update sends the records in packages and returns the total execute count.
// All packages are sent even when one fails; the first failure is returned.
func (s *SemesterScoreService) Update(ctx context.Context, recs ...SemesterScore) (int, error) {
	w := batch.For[SemesterScore](s.Batch)
	n, err := w.Run(ctx, recs, func(ctx context.Context, pkg []SemesterScore) (int, error) {
		return execute(ctx, s.Caller, semesterScoreUpdateService, semesterScoreUpdate(pkg))
	})
	if err != nil {
		s.Log.Error("update semester score", zap.Int("records", len(recs)), zap.Error(err))
		return n, err
	}
	return n, nil
}
