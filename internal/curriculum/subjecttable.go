package curriculum

import (
	"context"
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
	"shschool-data/internal/util"
)

type subjectTableRow struct {
	ID      string
	Catalog string
	Name    string
	Content string
}

// SubjectTableService reads subj_table directly; the table has no facade
// of its own.
type SubjectTableService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewSubjectTableService(db *gorm.DB, log *zap.Logger) *SubjectTableService {
	return &SubjectTableService{DB: db, Log: logger.OrNop(log)}
}

// Select filters by any combination of ids, catalogs and names. Empty filters
// are ignored, so no filters means every table.
func (s *SubjectTableService) Select(ctx context.Context, ids, catalogs, names []string) ([]SubjectTable, error) {
	q := s.DB.WithContext(ctx).Table("subj_table").Select("id, catalog, name, content")
	if ids = util.CompactIDs(ids); len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	if catalogs = util.CompactIDs(catalogs); len(catalogs) > 0 {
		q = q.Where("catalog IN ?", catalogs)
	}
	if names = util.CompactIDs(names); len(names) > 0 {
		q = q.Where("name IN ?", names)
	}

	var rows []subjectTableRow
	if err := q.Order("id").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "select subj_table")
	}

	out := make([]SubjectTable, 0, len(rows))
	for _, r := range rows {
		rec := SubjectTable{ID: r.ID, Catalog: r.Catalog, Name: r.Name}
		if err := rec.LoadContent(r.Content); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SubjectTableService) SelectAll(ctx context.Context) ([]SubjectTable, error) {
	return s.Select(ctx, nil, nil, nil)
}

// LoadContent reads a <SubjectTableContent> document.
func (t *SubjectTable) LoadContent(content string) error {
	t.Subjects = []SubjectTableSubject{}
	if content == "" {
		return nil
	}
	root, err := dsa.Parse(content)
	if err != nil {
		return errors.Wrapf(err, "subject table %s", t.ID)
	}
	t.loadContentElement(root)
	return nil
}

// Load reads the service form: <SubjectTable ID=""><Catalog/><Name/><Content>...</Content></SubjectTable>.
func (t *SubjectTable) Load(el *etree.Element) {
	t.ID = dsa.Attr(el, "ID")
	t.Catalog = dsa.Text(el, "Catalog")
	t.Name = dsa.Text(el, "Name")
	t.Subjects = []SubjectTableSubject{}
	if c := el.FindElement("Content/SubjectTableContent"); c != nil {
		t.loadContentElement(c)
	}
}

func (t *SubjectTable) loadContentElement(root *etree.Element) {
	t.CreditCount = util.ParseInt(root.SelectAttrValue("CreditCount", ""), 0)
	t.CoreCount = util.ParseInt(root.SelectAttrValue("CoreCount", ""), 0)
	for _, el := range root.SelectElements("Subject") {
		var sub SubjectTableSubject
		sub.Load(el)
		t.Subjects = append(t.Subjects, sub)
	}
}

// ToXML builds the <SubjectTableContent> element stored in the content column.
func (t SubjectTable) ToXML() *etree.Element {
	root := etree.NewElement("SubjectTableContent")
	root.CreateAttr("CreditCount", strconv.Itoa(t.CreditCount))
	root.CreateAttr("CoreCount", strconv.Itoa(t.CoreCount))
	for _, s := range t.Subjects {
		root.AddChild(s.ToXML())
	}
	return root
}

func (s *SubjectTableSubject) Load(el *etree.Element) {
	s.Name = el.SelectAttrValue("Name", "")
	s.IsCore = util.ParseBoolPtr(el.SelectAttrValue("IsCore", ""))
	s.Levels = []int{}
	for _, lv := range el.SelectElements("Level") {
		s.Levels = append(s.Levels, util.ParseInt(lv.Text(), 0))
	}
}

func (s SubjectTableSubject) ToXML() *etree.Element {
	el := etree.NewElement("Subject")
	el.CreateAttr("Name", s.Name)
	el.CreateAttr("IsCore", util.FormatBoolPtr(s.IsCore))
	for _, lv := range s.Levels {
		el.CreateElement("Level").SetText(strconv.Itoa(lv))
	}
	return el
}
