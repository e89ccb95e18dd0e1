package curriculum

import (
	"context"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/logger"
	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

type ProgramPlanService struct {
	*store.Facade[ProgramPlan, *ProgramPlan]
}

func NewProgramPlanService(db *gorm.DB, log *zap.Logger) *ProgramPlanService {
	return &ProgramPlanService{Facade: store.NewFacade[ProgramPlan](db, log)}
}

// Subjects parses the plan content. Plans with empty content have no
// subjects.
func (p ProgramPlan) Subjects() ([]ProgramSubject, error) {
	if p.Content == "" {
		return nil, nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(p.Content); err != nil {
		return nil, errors.Wrapf(err, "program plan %s content", p.ID)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	var out []ProgramSubject
	for _, el := range root.FindElements(".//Subject") {
		out = append(out, ProgramSubject{
			ProgramPlanID:   p.ID,
			ProgramPlanName: p.Name,
			SubjectName:     el.SelectAttrValue("SubjectName", ""),
			FullName:        el.SelectAttrValue("FullName", ""),
			Level:           util.ParseIntPtr(el.SelectAttrValue("Level", "")),
			Credit:          util.ParseDecimal(el.SelectAttrValue("Credit", "")),
			GradeYear:       util.ParseIntPtr(el.SelectAttrValue("GradeYear", "")),
			Semester:        util.ParseIntPtr(el.SelectAttrValue("Semester", "")),
			Required:        el.SelectAttrValue("Required", ""),
			RequiredBy:      el.SelectAttrValue("RequiredBy", ""),
			Entry:           el.SelectAttrValue("Entry", ""),
			Domain:          el.SelectAttrValue("Domain", ""),
			Category:        el.SelectAttrValue("Category", ""),
		})
	}
	return out, nil
}

// SelectAllDetail flattens every plan into its subject lines. A plan whose
// content cannot be parsed is logged and skipped.
func (s *ProgramPlanService) SelectAllDetail(ctx context.Context) ([]ProgramSubject, error) {
	plans, err := s.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []ProgramSubject{}
	for _, p := range plans {
		subjects, err := p.Subjects()
		if err != nil {
			logger.OrNop(s.Log).Warn("skip program plan", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		out = append(out, subjects...)
	}
	return out, nil
}

type ScoreCalcRuleService struct {
	*store.Facade[ScoreCalcRule, *ScoreCalcRule]
}

func NewScoreCalcRuleService(db *gorm.DB, log *zap.Logger) *ScoreCalcRuleService {
	return &ScoreCalcRuleService{Facade: store.NewFacade[ScoreCalcRule](db, log)}
}
