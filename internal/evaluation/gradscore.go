package evaluation

import (
	"context"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/batch"
	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
	"shschool-data/internal/util"
)

const (
	gradScoreSelectService = "SmartSchool.Student.GetDetailList"
	gradScoreUpdateService = "SmartSchool.Student.Update"
)

type GradEntryScore struct {
	Entry string   `json:"entry"`
	Score *float64 `json:"score"`
}

// GradScore holds a student's graduation entry scores, e.g.
// <GradScore><EntryScore Entry="學業" Score="71.0"/></GradScore>.
type GradScore struct {
	RefStudentID string           `json:"ref_student_id"`
	Entries      []GradEntryScore `json:"entries"`
}

// Entry returns the score of one entry, or nil.
func (r *GradScore) Entry(name string) *GradEntryScore {
	for i := range r.Entries {
		if r.Entries[i].Entry == name {
			return &r.Entries[i]
		}
	}
	return nil
}

func (r *GradScore) SetEntry(name string, score *float64) {
	if e := r.Entry(name); e != nil {
		e.Score = score
		return
	}
	r.Entries = append(r.Entries, GradEntryScore{Entry: name, Score: score})
}

func (r *GradScore) Load(el *etree.Element) {
	r.RefStudentID = dsa.Attr(el, "ID")
	r.Entries = []GradEntryScore{}
	for _, e := range dsa.Elements(el, "GradScore/GradScore/EntryScore") {
		name := dsa.Attr(e, "Entry")
		if r.Entry(name) != nil {
			continue
		}
		r.Entries = append(r.Entries, GradEntryScore{Entry: name, Score: util.ParseDecimal(dsa.Attr(e, "Score"))})
	}
}

type GradScoreService struct {
	Caller dsa.Caller
	Batch  batch.Options
	Log    *zap.Logger
}

func NewGradScoreService(c dsa.Caller, opts batch.Options, log *zap.Logger) *GradScoreService {
	return &GradScoreService{Caller: c, Batch: opts, Log: logger.OrNop(log)}
}

func (s *GradScoreService) query(ctx context.Context, ids []string) ([]GradScore, error) {
	req, cond := newSelect("Request", "ID", "GradScore")
	for _, id := range ids {
		cond.CreateElement("ID").SetText(id)
	}
	resp, err := s.Caller.Call(ctx, gradScoreSelectService, req)
	if err != nil {
		return nil, errors.Wrap(err, "select grad score")
	}
	out := []GradScore{}
	for _, el := range dsa.Elements(resp, "Student") {
		var r GradScore
		r.Load(el)
		out = append(out, r)
	}
	return out, nil
}

func (s *GradScoreService) SelectAll(ctx context.Context) ([]GradScore, error) {
	return s.query(ctx, nil)
}

// SelectByID returns nil when the student has no record.
func (s *GradScoreService) SelectByID(ctx context.Context, studentID string) (*GradScore, error) {
	recs, err := s.SelectByIDs(ctx, studentID)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (s *GradScoreService) SelectByIDs(ctx context.Context, studentIDs ...string) ([]GradScore, error) {
	studentIDs = util.CompactIDs(studentIDs)
	if len(studentIDs) == 0 {
		return []GradScore{}, nil
	}
	return s.query(ctx, studentIDs)
}

func gradScoreUpdate(recs []GradScore) *etree.Element {
	req := dsa.NewRequest("UpdateStudentList")
	for _, r := range recs {
		el := dsa.Add(req, "Student")
		grad := dsa.Add(el, "Field/GradScore/GradScore")
		for _, e := range r.Entries {
			entry := grad.CreateElement("EntryScore")
			entry.CreateAttr("Entry", e.Entry)
			entry.CreateAttr("Score", util.FormatDecimal(e.Score))
		}
		dsa.Add(el, "Condition/ID", r.RefStudentID)
	}
	return req
}

func (s *GradScoreService) Update(ctx context.Context, recs ...GradScore) (int, error) {
	w := batch.For[GradScore](s.Batch)
	n, err := w.Run(ctx, recs, func(ctx context.Context, pkg []GradScore) (int, error) {
		return execute(ctx, s.Caller, gradScoreUpdateService, gradScoreUpdate(pkg))
	})
	if err != nil {
		s.Log.Error("update grad score", zap.Int("records", len(recs)), zap.Error(err))
	}
	return n, err
}
