package evaluation

import (
	"github.com/beevik/etree"

	"shschool-data/internal/dsa"
	"shschool-data/internal/store"
)

// SCAttend links a student to a course. The Override fields replace the
// course's required flags when set.
type SCAttend struct {
	store.Model
	RefStudentID       string   `gorm:"column:ref_student_id;index" json:"ref_student_id"`
	RefCourseID        string   `gorm:"column:ref_course_id;index" json:"ref_course_id"`
	OverrideRequired   *bool    `gorm:"column:is_required" json:"override_required"`
	OverrideRequiredBy string   `gorm:"column:required_by;size:32" json:"override_required_by"`
	Score              *float64 `gorm:"column:score" json:"score"`
	Extension          string   `gorm:"column:extension;type:text" json:"extension"`
}

func (SCAttend) TableName() string { return "sc_attend" }

// SCETake is a student's result on one exam of an attended course.
type SCETake struct {
	store.Model
	RefSCAttendID string   `gorm:"column:ref_sc_attend_id;index" json:"ref_sc_attend_id"`
	RefExamID     string   `gorm:"column:ref_exam_id;index" json:"ref_exam_id"`
	Score         *float64 `gorm:"column:score" json:"score"`
	Extension     string   `gorm:"column:extension;type:text" json:"extension"`
}

func (SCETake) TableName() string { return "sce_take" }

// Text is the descriptive assessment kept in <Extension><Text/></Extension>.
func (t SCETake) Text() string {
	el, err := dsa.Parse(t.Extension)
	if err != nil {
		return ""
	}
	return dsa.Text(el, "Text")
}

// SetText writes the Text element, keeping the rest of the extension.
func (t *SCETake) SetText(text string) {
	el, err := dsa.Parse(t.Extension)
	if err != nil {
		el = etree.NewElement("Extension")
	}
	node := el.SelectElement("Text")
	if node == nil {
		node = el.CreateElement("Text")
	}
	node.SetText(text)
	t.Extension = dsa.String(el)
}

type TCInstruct struct {
	store.Model
	RefTeacherID string `gorm:"column:ref_teacher_id;index" json:"ref_teacher_id"`
	RefCourseID  string `gorm:"column:ref_course_id;index" json:"ref_course_id"`
	Sequence     *int   `gorm:"column:sequence" json:"sequence"`
}

func (TCInstruct) TableName() string { return "tc_instruct" }

// MoralScore is a student's conduct adjustment for one term.
type MoralScore struct {
	store.Model
	RefStudentID string   `gorm:"column:ref_student_id;index" json:"ref_student_id"`
	SchoolYear   int      `gorm:"column:school_year" json:"school_year"`
	Semester     int      `gorm:"column:semester" json:"semester"`
	Diff         *float64 `gorm:"column:diff" json:"diff"`
	Comment      string   `gorm:"column:comment;type:text" json:"comment"`
	OtherDiff    string   `gorm:"column:other_diff;type:text" json:"other_diff"`
}

func (MoralScore) TableName() string { return "moral_score" }

// OtherDiffElement parses OtherDiff; nil when empty or malformed.
func (m MoralScore) OtherDiffElement() *etree.Element {
	if m.OtherDiff == "" {
		return nil
	}
	el, err := dsa.Parse(m.OtherDiff)
	if err != nil {
		return nil
	}
	return el
}

func (m *MoralScore) SetOtherDiff(el *etree.Element) {
	m.OtherDiff = dsa.String(el)
}
