package evaluation

import (
	"context"

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"shschool-data/internal/dsa"
)

// SchoolYearSemester names one term in a select condition.
type SchoolYearSemester struct {
	SchoolYear int `json:"school_year"`
	Semester   int `json:"semester"`
}

// newSelect builds <root><Field><f/>...</Field><Condition/></root>.
func newSelect(root string, fields ...string) (req, cond *etree.Element) {
	req = dsa.NewRequest(root)
	field := req.CreateElement("Field")
	for _, f := range fields {
		field.CreateElement(f)
	}
	cond = req.CreateElement("Condition")
	return req, cond
}

// addIDs appends <list><ID>..</ID></list> under cond, skipping blank ids.
// Nothing is added for an empty list.
func addIDs(cond *etree.Element, list string, ids []string) {
	if len(ids) == 0 {
		return
	}
	parent := cond.CreateElement(list)
	for _, id := range ids {
		if id != "" {
			parent.CreateElement("ID").SetText(id)
		}
	}
}

// execute sends a mutation and reads its ExecuteCount.
func execute(ctx context.Context, c dsa.Caller, service string, req *etree.Element) (int, error) {
	resp, err := c.Call(ctx, service, req)
	if err != nil {
		return 0, errors.Wrap(err, service)
	}
	return dsa.ExecuteCount(resp)
}

// deleteRequest builds <DeleteRequest><elem><ID/></elem>...</DeleteRequest>.
func deleteRequest(elem string, ids []string) *etree.Element {
	req := dsa.NewRequest("DeleteRequest")
	for _, id := range ids {
		dsa.Add(req, elem).CreateElement("ID").SetText(id)
	}
	return req
}
