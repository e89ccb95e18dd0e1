package curriculum

import (
	"time"

	"shschool-data/internal/store"
)

type ProgramPlan struct {
	store.Model
	Name    string `gorm:"column:name;size:255" json:"name"`
	Content string `gorm:"column:content;type:text" json:"content"`
}

func (ProgramPlan) TableName() string { return "program_plan" }

// ProgramSubject is one subject line of a program plan, flattened for
// reporting.
type ProgramSubject struct {
	ProgramPlanID   string   `json:"program_plan_id"`
	ProgramPlanName string   `json:"program_plan_name"`
	SubjectName     string   `json:"subject_name"`
	FullName        string   `json:"full_name"`
	Level           *int     `json:"level"`
	Credit          *float64 `json:"credit"`
	GradeYear       *int     `json:"grade_year"`
	Semester        *int     `json:"semester"`
	Required        string   `json:"required"`
	RequiredBy      string   `json:"required_by"`
	Entry           string   `json:"entry"`
	Domain          string   `json:"domain"`
	Category        string   `json:"category"`
}

type ScoreCalcRule struct {
	store.Model
	Name    string `gorm:"column:name;size:255" json:"name"`
	Content string `gorm:"column:content;type:text" json:"content"`
}

func (ScoreCalcRule) TableName() string { return "score_calc_rule" }

type SubjectTable struct {
	ID          string                `json:"id"`
	Catalog     string                `json:"catalog"`
	Name        string                `json:"name"`
	CreditCount int                   `json:"credit_count"`
	CoreCount   int                   `json:"core_count"`
	Subjects    []SubjectTableSubject `json:"subjects"`
}

type SubjectTableSubject struct {
	Name   string `json:"name"`
	IsCore *bool  `json:"is_core"`
	Levels []int  `json:"levels"`
}

// AssessmentSetup is an exam template.
type AssessmentSetup struct {
	store.Model
	Name        string `gorm:"column:name;size:255" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	AllowUpload bool   `gorm:"column:allow_upload" json:"allow_upload"`
}

func (AssessmentSetup) TableName() string { return "exam_template" }

type Exam struct {
	store.Model
	Name         string `gorm:"column:exam_name;size:255" json:"name"`
	Description  string `gorm:"column:description;type:text" json:"description"`
	DisplayOrder *int   `gorm:"column:display_order" json:"display_order"`
}

func (Exam) TableName() string { return "exam" }

// AEInclude links an exam into an assessment setup.
type AEInclude struct {
	store.Model
	RefAssessmentSetupID string     `gorm:"column:ref_exam_template_id;index" json:"ref_assessment_setup_id"`
	RefExamID            string     `gorm:"column:ref_exam_id" json:"ref_exam_id"`
	Weight               *float64   `gorm:"column:weight" json:"weight"`
	UseScore             bool       `gorm:"column:use_score" json:"use_score"`
	UseText              bool       `gorm:"column:use_text" json:"use_text"`
	InputRequired        bool       `gorm:"column:input_required" json:"input_required"`
	StartTime            *time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime              *time.Time `gorm:"column:end_time" json:"end_time"`
}

func (AEInclude) TableName() string { return "te_include" }
