package behavior

import (
	"time"

	"gorm.io/datatypes"

	"shschool-data/internal/store"
)

// AttendancePeriod is one absent period of an attendance day.
type AttendancePeriod struct {
	Period         string `json:"period"`
	AbsenceType    string `json:"absence_type"`
	AttendanceType string `json:"attendance_type"`
}

// Attendance is a student's absence record for one day; the periods are kept
// as a JSON list in the detail column.
type Attendance struct {
	store.Model
	RefStudentID string                                `gorm:"column:ref_student_id;index" json:"ref_student_id"`
	SchoolYear   int                                   `gorm:"column:school_year" json:"school_year"`
	Semester     int                                   `gorm:"column:semester" json:"semester"`
	OccurDate    time.Time                             `gorm:"column:occur_date;index" json:"occur_date"`
	Periods      datatypes.JSONSlice[AttendancePeriod] `gorm:"column:detail" json:"periods"`
}

func (Attendance) TableName() string { return "attendance" }

// Discipline flags.
const (
	FlagDemerit   = 0
	FlagMerit     = 1
	FlagProbation = 2
)

// Discipline is a merit or demerit entry. A, B and C count the major, minor
// and small awards (or offences). The clear fields only apply to demerits.
type Discipline struct {
	store.Model
	RefStudentID string     `gorm:"column:ref_student_id;index" json:"ref_student_id"`
	SchoolYear   int        `gorm:"column:school_year" json:"school_year"`
	Semester     int        `gorm:"column:semester" json:"semester"`
	OccurDate    time.Time  `gorm:"column:occur_date;index" json:"occur_date"`
	RegisterDate *time.Time `gorm:"column:register_date" json:"register_date"`
	Reason       string     `gorm:"column:reason;type:text" json:"reason"`
	MeritFlag    int        `gorm:"column:merit_flag;index" json:"merit_flag"`
	A            *int       `gorm:"column:a_count" json:"a"`
	B            *int       `gorm:"column:b_count" json:"b"`
	C            *int       `gorm:"column:c_count" json:"c"`
	Cleared      bool       `gorm:"column:cleared" json:"cleared"`
	ClearDate    *time.Time `gorm:"column:clear_date" json:"clear_date"`
	ClearReason  string     `gorm:"column:clear_reason;type:text" json:"clear_reason"`
}

func (Discipline) TableName() string { return "discipline" }

func (d Discipline) IsMerit() bool   { return d.MeritFlag == FlagMerit }
func (d Discipline) IsDemerit() bool { return d.MeritFlag == FlagDemerit }

// Term is one school year and semester pair.
type Term struct {
	SchoolYear int `json:"school_year"`
	Semester   int `json:"semester"`
}
