package behavior

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/cache"
	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
	"shschool-data/internal/util"
)

const (
	mdReduceService    = "SmartSchool.Config.GetMDReduce"
	absenceListService = "SmartSchool.Others.GetAbsenceList"
	periodListService  = "SmartSchool.Others.GetPeriodList"
)

// MeritDemeritReduce holds the conversion ratios between award levels, e.g.
// MeritAToMeritB = 3 means one major merit equals three minor merits.
type MeritDemeritReduce struct {
	MeritAToMeritB     *int `json:"merit_a_to_merit_b"`
	MeritBToMeritC     *int `json:"merit_b_to_merit_c"`
	DemeritAToDemeritB *int `json:"demerit_a_to_demerit_b"`
	DemeritBToDemeritC *int `json:"demerit_b_to_demerit_c"`
}

func (r *MeritDemeritReduce) Load(el *etree.Element) {
	r.MeritAToMeritB = util.ParseIntPtr(dsa.Text(el, ".//Merit/AB"))
	r.MeritBToMeritC = util.ParseIntPtr(dsa.Text(el, ".//Merit/BC"))
	r.DemeritAToDemeritB = util.ParseIntPtr(dsa.Text(el, ".//Demerit/AB"))
	r.DemeritBToDemeritC = util.ParseIntPtr(dsa.Text(el, ".//Demerit/BC"))
}

type MeritDemeritReduceService struct {
	Caller dsa.Caller
	Log    *zap.Logger

	rec *cache.Loader[MeritDemeritReduce]
}

func NewMeritDemeritReduceService(c dsa.Caller, log *zap.Logger) *MeritDemeritReduceService {
	s := &MeritDemeritReduceService{Caller: c, Log: logger.OrNop(log)}
	s.rec = cache.NewLoader(s.load)
	return s
}

func (s *MeritDemeritReduceService) load(ctx context.Context) (MeritDemeritReduce, error) {
	var r MeritDemeritReduce
	resp, err := s.Caller.Call(ctx, mdReduceService, nil)
	if err != nil {
		return r, errors.Wrap(err, "load merit demerit reduce")
	}
	r.Load(resp)
	return r, nil
}

func (s *MeritDemeritReduceService) Select(ctx context.Context) (*MeritDemeritReduce, error) {
	r, err := s.rec.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MeritDemeritReduceService) Invalidate() { s.rec.Invalidate() }

// AbsenceMapping is one absence type, e.g. 事假 with abbreviation 事.
type AbsenceMapping struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	HotKey       string `json:"hot_key"`
	Noabsence    bool   `json:"noabsence"`
}

func (m *AbsenceMapping) Load(el *etree.Element) {
	m.Name = dsa.Attr(el, "Name")
	m.Abbreviation = dsa.Attr(el, "Abbreviation")
	m.HotKey = dsa.Attr(el, "HotKey")
	m.Noabsence = strings.EqualFold(strings.TrimSpace(dsa.Attr(el, "Noabsence")), "true")
}

// PeriodMapping is one lesson period, e.g. 第一節 of type 一般.
type PeriodMapping struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Sort int    `json:"sort"`
}

func (m *PeriodMapping) Load(el *etree.Element) {
	m.Name = dsa.Attr(el, "Name")
	m.Type = dsa.Attr(el, "Type")
	m.Sort = util.ParseInt(dsa.Attr(el, "Sort"), 0)
}

// listService reads one remote config list once and keeps it until
// invalidated.
type listService[T any, P interface {
	*T
	Load(*etree.Element)
}] struct {
	Caller dsa.Caller
	Log    *zap.Logger

	service string
	path    string
	list    *cache.Loader[[]T]
}

func newListService[T any, P interface {
	*T
	Load(*etree.Element)
}](c dsa.Caller, service, path string, log *zap.Logger) *listService[T, P] {
	s := &listService[T, P]{Caller: c, Log: logger.OrNop(log), service: service, path: path}
	s.list = cache.NewLoader(s.load)
	return s
}

func (s *listService[T, P]) load(ctx context.Context) ([]T, error) {
	req := dsa.NewRequest("Request")
	dsa.Add(req, "Field/All")

	resp, err := s.Caller.Call(ctx, s.service, req)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", s.service)
	}
	out := []T{}
	for _, el := range dsa.Elements(resp, s.path) {
		var v T
		P(&v).Load(el)
		out = append(out, v)
	}
	s.Log.Debug("config list loaded", zap.String("service", s.service), zap.Int("count", len(out)))
	return out, nil
}

func (s *listService[T, P]) SelectAll(ctx context.Context) ([]T, error) {
	list, err := s.list.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(list))
	copy(out, list)
	return out, nil
}

func (s *listService[T, P]) Invalidate() { s.list.Invalidate() }

type (
	AbsenceMappingService = listService[AbsenceMapping, *AbsenceMapping]
	PeriodMappingService  = listService[PeriodMapping, *PeriodMapping]
)

func NewAbsenceMappingService(c dsa.Caller, log *zap.Logger) *AbsenceMappingService {
	return newListService[AbsenceMapping](c, absenceListService, ".//Absence", log)
}

func NewPeriodMappingService(c dsa.Caller, log *zap.Logger) *PeriodMappingService {
	return newListService[PeriodMapping](c, periodListService, ".//Period", log)
}

var (
	_ cache.Invalidator = (*MeritDemeritReduceService)(nil)
	_ cache.Invalidator = (*AbsenceMappingService)(nil)
	_ cache.Invalidator = (*PeriodMappingService)(nil)
)
