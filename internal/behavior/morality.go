package behavior

import (
	"context"
	"sort"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
)

const moralityListName = "文字評量代碼表"

// ListDDL creates the list table in local sqlite mode; it is not
// gorm-managed.
const ListDDL = `CREATE TABLE IF NOT EXISTS list (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	content TEXT
)`

type MoralityItem struct {
	Code    string `json:"code"`
	Comment string `json:"comment"`
}

// Morality is one face of the descriptive assessment code table with its
// items ordered by code.
type Morality struct {
	Face  string         `json:"face"`
	Items []MoralityItem `json:"items"`
}

func (m *Morality) Load(el *etree.Element) {
	m.Face = dsa.Attr(el, "Face")
	m.Items = []MoralityItem{}
	for _, item := range el.SelectElements("Item") {
		m.Items = append(m.Items, MoralityItem{Code: dsa.Attr(item, "Code"), Comment: dsa.Attr(item, "Comment")})
	}
	sort.SliceStable(m.Items, func(i, j int) bool { return m.Items[i].Code < m.Items[j].Code })
}

// MoralityService reads the code table straight from the list table.
type MoralityService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewMoralityService(db *gorm.DB, log *zap.Logger) *MoralityService {
	return &MoralityService{DB: db, Log: logger.OrNop(log)}
}

// SelectAll returns an empty list when the table has no code table row.
func (s *MoralityService) SelectAll(ctx context.Context) ([]Morality, error) {
	var rows []struct{ Content string }
	err := s.DB.WithContext(ctx).
		Raw("SELECT content FROM list WHERE name = ? ORDER BY id", moralityListName).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "select morality list")
	}
	out := []Morality{}
	if len(rows) == 0 {
		return out, nil
	}

	root, err := dsa.Parse(rows[0].Content)
	if err != nil {
		return nil, errors.Wrap(err, "parse morality list")
	}
	for _, el := range root.FindElements("Content/Morality") {
		var m Morality
		m.Load(el)
		out = append(out, m)
	}
	return out, nil
}
