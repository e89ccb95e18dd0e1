package evaluation

import (
	"strconv"

	"github.com/beevik/etree"

	"shschool-data/internal/dsa"
	"shschool-data/internal/util"
)

// Name attribute of a ranking item: subject rankings use 科目, entry
// rankings use 分項.
const (
	RankBySubject = "科目"
	RankByEntry   = "分項"
)

// RankingInfo is one <Item 成績="87" 成績人數="50" 排名="12" 科目="公民"/>.
type RankingInfo struct {
	Name        string   `json:"name"`
	Score       *float64 `json:"score"`
	ScoreNumber int      `json:"score_number"`
	Ranking     int      `json:"ranking"`
}

func (r *RankingInfo) Load(el *etree.Element, nameAttr string) {
	r.Score = util.ParseDecimal(dsa.Attr(el, "成績"))
	r.ScoreNumber = util.ParseInt(dsa.Attr(el, "成績人數"), 0)
	r.Ranking = util.ParseInt(dsa.Attr(el, "排名"), 0)
	r.Name = dsa.Attr(el, nameAttr)
}

func (r RankingInfo) ToXML(nameAttr string) *etree.Element {
	el := etree.NewElement("Item")
	el.CreateAttr("成績", util.FormatDecimal(r.Score))
	el.CreateAttr("成績人數", strconv.Itoa(r.ScoreNumber))
	el.CreateAttr("排名", strconv.Itoa(r.Ranking))
	el.CreateAttr(nameAttr, r.Name)
	return el
}

// loadRankings reads <path>/Rating/Item below el.
func loadRankings(el *etree.Element, path, nameAttr string) []RankingInfo {
	out := []RankingInfo{}
	for _, item := range dsa.Elements(el, path+"/Rating/Item") {
		var r RankingInfo
		r.Load(item, nameAttr)
		out = append(out, r)
	}
	return out
}

// rankingOf returns the ranking of name, first match wins.
func rankingOf(list []RankingInfo, name string) *int {
	for _, r := range list {
		if r.Name == name {
			rank := r.Ranking
			return &rank
		}
	}
	return nil
}
