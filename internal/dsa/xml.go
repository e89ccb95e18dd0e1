package dsa

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// NewRequest returns an empty request root element.
func NewRequest(root string) *etree.Element {
	return etree.NewElement(root)
}

// Add appends the slash separated path under parent. Intermediate elements
// are reused when present; the last segment is always a new element. When
// text is given it becomes the new element's text.
func Add(parent *etree.Element, path string, text ...string) *etree.Element {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	cur := parent
	for _, seg := range segs[:len(segs)-1] {
		next := cur.SelectElement(seg)
		if next == nil {
			next = cur.CreateElement(seg)
		}
		cur = next
	}
	el := cur.CreateElement(segs[len(segs)-1])
	if len(text) > 0 {
		el.SetText(text[0])
	}
	return el
}

// Elements returns the elements matching path below el, nil-safe.
func Elements(el *etree.Element, path string) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElements(path)
}

// Text returns the text of the first element at path, or "".
func Text(el *etree.Element, path string) string {
	if el == nil {
		return ""
	}
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// Attr returns the attribute value of el, or "".
func Attr(el *etree.Element, key string) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(key, "")
}

// ExecuteCount reads the affected-row count of a mutation response.
func ExecuteCount(resp *etree.Element) (int, error) {
	if resp == nil {
		return 0, errors.New("empty response")
	}
	raw := Text(resp, "ExecuteCount")
	if resp.Tag == "ExecuteCount" {
		raw = strings.TrimSpace(resp.Text())
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse ExecuteCount %q", raw)
	}
	return n, nil
}

// Parse reads a standalone XML fragment and returns its root element.
func Parse(s string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, errors.Wrap(err, "parse xml")
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("parse xml: no root element")
	}
	return root, nil
}

// String serializes el without indentation.
func String(el *etree.Element) string {
	if el == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}
