package permrec

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/cache"
	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
)

const (
	schoolConfigService       = "SmartSchool.Config.GetSchoolConfig"
	updateCodeSynopsisService = "SmartSchool.Config.GetUpdateCodeSynopsis"
)

// codeTable keeps records in load order with an index by code. The first
// record of a code wins; later duplicates are dropped.
type codeTable[V any] struct {
	list   []V
	byCode map[string]int
}

func newCodeTable[V any](items []V, code func(V) string, log *zap.Logger) codeTable[V] {
	t := codeTable[V]{list: make([]V, 0, len(items)), byCode: make(map[string]int, len(items))}
	for _, it := range items {
		c := code(it)
		if _, dup := t.byCode[c]; dup {
			log.Warn("duplicate mapping code dropped", zap.String("code", c))
			continue
		}
		t.byCode[c] = len(t.list)
		t.list = append(t.list, it)
	}
	return t
}

func (t codeTable[V]) all() []V {
	out := make([]V, len(t.list))
	copy(out, t.list)
	return out
}

func (t codeTable[V]) get(code string) (V, bool) {
	i, ok := t.byCode[code]
	if !ok {
		var zero V
		return zero, false
	}
	return t.list[i], true
}

// PermrecStatusMapping maps an enrollment status code to the student tags
// that carry it.
type PermrecStatusMapping struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	TagFullNames []string `json:"tag_full_names"`
}

func (m *PermrecStatusMapping) Load(el *etree.Element) {
	m.Code = dsa.Attr(el, "Code")
	m.Name = dsa.Attr(el, "Name")
	m.TagFullNames = []string{}
	for _, tag := range el.SelectElements("Tag") {
		m.TagFullNames = append(m.TagFullNames, tag.SelectAttrValue("FullName", ""))
	}
}

func (m PermrecStatusMapping) TagFullNamesStr() string {
	return strings.Join(m.TagFullNames, ",")
}

func (m PermrecStatusMapping) hasTag(fullName string) bool {
	for _, n := range m.TagFullNames {
		if n == fullName {
			return true
		}
	}
	return false
}

type PermrecStatusMappingService struct {
	Caller dsa.Caller
	Tags   TagNamer
	Log    *zap.Logger

	table *cache.Loader[codeTable[PermrecStatusMapping]]
}

func NewPermrecStatusMappingService(c dsa.Caller, tags TagNamer, log *zap.Logger) *PermrecStatusMappingService {
	s := &PermrecStatusMappingService{Caller: c, Tags: tags, Log: logger.OrNop(log)}
	s.table = cache.NewLoader(s.load)
	return s
}

func (s *PermrecStatusMappingService) load(ctx context.Context) (codeTable[PermrecStatusMapping], error) {
	resp, err := s.Caller.Call(ctx, schoolConfigService, nil)
	if err != nil {
		return codeTable[PermrecStatusMapping]{}, errors.Wrap(err, "load permrec status mapping")
	}
	var items []PermrecStatusMapping
	for _, el := range dsa.Elements(resp, "Content/學籍身分對照表/Identity") {
		var m PermrecStatusMapping
		m.Load(el)
		items = append(items, m)
	}
	s.Log.Debug("permrec status mapping loaded", zap.Int("count", len(items)))
	return newCodeTable(items, func(m PermrecStatusMapping) string { return m.Code }, s.Log), nil
}

func (s *PermrecStatusMappingService) SelectAll(ctx context.Context) ([]PermrecStatusMapping, error) {
	t, err := s.table.Get(ctx)
	if err != nil {
		return nil, err
	}
	return t.all(), nil
}

// SelectByCode returns nil for an unknown code.
func (s *PermrecStatusMappingService) SelectByCode(ctx context.Context, code string) (*PermrecStatusMapping, error) {
	t, err := s.table.Get(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := t.get(code)
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// SelectByStudentID returns the mappings whose tags the student carries,
// each at most once, in the order of the student's tags.
func (s *PermrecStatusMappingService) SelectByStudentID(ctx context.Context, studentID string) ([]PermrecStatusMapping, error) {
	t, err := s.table.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := []PermrecStatusMapping{}
	if len(t.list) == 0 {
		return out, nil
	}

	names, err := s.Tags.FullNames(ctx, studentID)
	if err != nil {
		return nil, err
	}
	added := make(map[string]bool)
	for _, name := range names {
		for _, m := range t.list {
			if added[m.Code] || !m.hasTag(name) {
				continue
			}
			added[m.Code] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *PermrecStatusMappingService) Invalidate() { s.table.Invalidate() }

// UpdateCodeMapping describes one enrollment change code.
type UpdateCodeMapping struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func (m *UpdateCodeMapping) Load(el *etree.Element) {
	m.Code = dsa.Text(el, "代號")
	m.Description = dsa.Text(el, "原因及事項")
	m.Type = dsa.Text(el, "分類")
}

type UpdateCodeMappingService struct {
	Caller dsa.Caller
	Log    *zap.Logger

	table *cache.Loader[codeTable[UpdateCodeMapping]]
}

func NewUpdateCodeMappingService(c dsa.Caller, log *zap.Logger) *UpdateCodeMappingService {
	s := &UpdateCodeMappingService{Caller: c, Log: logger.OrNop(log)}
	s.table = cache.NewLoader(s.load)
	return s
}

func (s *UpdateCodeMappingService) load(ctx context.Context) (codeTable[UpdateCodeMapping], error) {
	req := dsa.NewRequest("GetCountyListRequest")
	dsa.Add(req, "Field/All")

	resp, err := s.Caller.Call(ctx, updateCodeSynopsisService, req)
	if err != nil {
		return codeTable[UpdateCodeMapping]{}, errors.Wrap(err, "load update code mapping")
	}
	var items []UpdateCodeMapping
	for _, el := range dsa.Elements(resp, ".//異動") {
		var m UpdateCodeMapping
		m.Load(el)
		items = append(items, m)
	}
	s.Log.Debug("update code mapping loaded", zap.Int("count", len(items)))
	return newCodeTable(items, func(m UpdateCodeMapping) string { return m.Code }, s.Log), nil
}

func (s *UpdateCodeMappingService) SelectAll(ctx context.Context) ([]UpdateCodeMapping, error) {
	t, err := s.table.Get(ctx)
	if err != nil {
		return nil, err
	}
	return t.all(), nil
}

// SelectByCode returns nil for an unknown code.
func (s *UpdateCodeMappingService) SelectByCode(ctx context.Context, code string) (*UpdateCodeMapping, error) {
	t, err := s.table.Get(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := t.get(code)
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *UpdateCodeMappingService) Invalidate() { s.table.Invalidate() }

var (
	_ cache.Invalidator = (*PermrecStatusMappingService)(nil)
	_ cache.Invalidator = (*UpdateCodeMappingService)(nil)
)
