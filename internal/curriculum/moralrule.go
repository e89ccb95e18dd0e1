package curriculum

import (
	"context"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
)

const (
	moralRuleSelectService = "SmartSchool.ScoreCalcRule.GetMoralConductScoreCalcRule"
	moralRuleUpdateService = "SmartSchool.ScoreCalcRule.SetMoralConductScoreCalcRule"
)

// MoralScoreCalcRule is the school-wide moral conduct rule. Its content is
// kept as raw XML.
type MoralScoreCalcRule struct {
	Content *etree.Element
}

func (r *MoralScoreCalcRule) Load(el *etree.Element) {
	r.Content = el
}

type MoralScoreCalcRuleService struct {
	Caller dsa.Caller
	Log    *zap.Logger
}

func NewMoralScoreCalcRuleService(c dsa.Caller, log *zap.Logger) *MoralScoreCalcRuleService {
	return &MoralScoreCalcRuleService{Caller: c, Log: logger.OrNop(log)}
}

// Select returns nil when the school has no rule configured.
func (s *MoralScoreCalcRuleService) Select(ctx context.Context) (*MoralScoreCalcRule, error) {
	req := dsa.NewRequest("GetMoralConductScoreCalcRuleRequest")
	dsa.Add(req, "Field/All")

	resp, err := s.Caller.Call(ctx, moralRuleSelectService, req)
	if err != nil {
		return nil, errors.Wrap(err, "select moral conduct rule")
	}
	el := resp.FindElement("MoralConductScoreCalcRule")
	if el == nil {
		return nil, nil
	}
	var rec MoralScoreCalcRule
	rec.Load(el)
	return &rec, nil
}

func (s *MoralScoreCalcRuleService) Update(ctx context.Context, rec MoralScoreCalcRule) (int, error) {
	req := dsa.NewRequest("SetMoralConductScoreCalcRuleRequest")
	content := dsa.Add(req, "MoralConductScoreCalcRule/Content")
	if rec.Content != nil {
		content.AddChild(rec.Content.Copy())
	}

	resp, err := s.Caller.Call(ctx, moralRuleUpdateService, req)
	if err != nil {
		return 0, errors.Wrap(err, "update moral conduct rule")
	}
	n, err := dsa.ExecuteCount(resp)
	if err != nil {
		return 0, errors.Wrap(err, "update moral conduct rule")
	}
	s.Log.Info("moral conduct rule updated", zap.Int("count", n))
	return n, nil
}
