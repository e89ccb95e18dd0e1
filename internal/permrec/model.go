package permrec

import (
	"time"

	"gorm.io/datatypes"

	"shschool-data/internal/store"
)

type Student struct {
	store.Model
	Name                    string     `gorm:"column:name;size:255" json:"name"`
	EnglishName             string     `gorm:"column:english_name;size:255" json:"english_name"`
	StudentNumber           string     `gorm:"column:student_number;size:64;index" json:"student_number"`
	SeatNo                  *int       `gorm:"column:seat_no" json:"seat_no"`
	Gender                  string     `gorm:"column:gender;size:8" json:"gender"`
	IDNumber                string     `gorm:"column:id_number;size:32" json:"id_number"`
	Birthdate               *time.Time `gorm:"column:birthdate" json:"birthdate"`
	Nationality             string     `gorm:"column:nationality;size:64" json:"nationality"`
	Status                  string     `gorm:"column:status;size:32" json:"status"`
	RefClassID              string     `gorm:"column:ref_class_id;index" json:"ref_class_id"`
	OverrideProgramPlanID   string     `gorm:"column:ref_graduation_plan_id" json:"override_program_plan_id"`
	OverrideScoreCalcRuleID string     `gorm:"column:ref_score_calc_rule_id" json:"override_score_calc_rule_id"`
	OverrideDepartmentID    string     `gorm:"column:ref_dept_id" json:"override_department_id"`
}

func (Student) TableName() string { return "student" }

type Class struct {
	store.Model
	Name               string `gorm:"column:class_name;size:255" json:"name"`
	GradeYear          *int   `gorm:"column:grade_year" json:"grade_year"`
	DisplayOrder       string `gorm:"column:display_order;size:32" json:"display_order"`
	NamingRule         string `gorm:"column:naming_rule;size:255" json:"naming_rule"`
	RefTeacherID       string `gorm:"column:ref_teacher_id" json:"ref_teacher_id"`
	RefProgramPlanID   string `gorm:"column:ref_graduation_plan_id" json:"ref_program_plan_id"`
	RefScoreCalcRuleID string `gorm:"column:ref_score_calc_rule_id" json:"ref_score_calc_rule_id"`
	RefDepartmentID    string `gorm:"column:ref_dept_id" json:"ref_department_id"`
}

func (Class) TableName() string { return "class" }

type Teacher struct {
	store.Model
	Name     string `gorm:"column:teacher_name;size:255" json:"name"`
	Nickname string `gorm:"column:nickname;size:255" json:"nickname"`
	Gender   string `gorm:"column:gender;size:8" json:"gender"`
	IDNumber string `gorm:"column:id_number;size:32" json:"id_number"`
	Email    string `gorm:"column:email;size:255" json:"email"`
	Status   string `gorm:"column:status;size:32" json:"status"`
	Category string `gorm:"column:category;size:255" json:"category"`
}

func (Teacher) TableName() string { return "teacher" }

type Course struct {
	store.Model
	Name                 string   `gorm:"column:course_name;size:255" json:"name"`
	Subject              string   `gorm:"column:subject;size:255" json:"subject"`
	Level                *int     `gorm:"column:subj_level" json:"level"`
	Credit               *float64 `gorm:"column:credit" json:"credit"`
	SchoolYear           *int     `gorm:"column:school_year;index:idx_course_term" json:"school_year"`
	Semester             *int     `gorm:"column:semester;index:idx_course_term" json:"semester"`
	RefClassID           string   `gorm:"column:ref_class_id;index" json:"ref_class_id"`
	RefAssessmentSetupID string   `gorm:"column:ref_exam_template_id" json:"ref_assessment_setup_id"`
	Entry                string   `gorm:"column:score_type;size:32" json:"entry"`
	Required             bool     `gorm:"column:c_required" json:"required"`
	RequiredBy           string   `gorm:"column:c_required_by;size:32" json:"required_by"`
	NotIncludedInCredit  bool     `gorm:"column:not_included_in_credit" json:"not_included_in_credit"`
	NotIncludedInCalc    bool     `gorm:"column:not_included_in_calc" json:"not_included_in_calc"`
}

func (Course) TableName() string { return "course" }

// TagCategory names which entity kind a tag applies to.
type TagCategory string

const (
	TagStudent TagCategory = "Student"
	TagClass   TagCategory = "Class"
	TagTeacher TagCategory = "Teacher"
	TagCourse  TagCategory = "Course"
)

type TagConfig struct {
	store.Model
	Category TagCategory `gorm:"column:category;size:32;index" json:"category"`
	Prefix   string      `gorm:"column:prefix;size:255" json:"prefix"`
	Name     string      `gorm:"column:name;size:255" json:"name"`
	Color    string      `gorm:"column:color;size:32" json:"color"`
}

func (TagConfig) TableName() string { return "tag" }

// FullName is "prefix:name", or just the name when there is no prefix.
func (t TagConfig) FullName() string {
	if t.Prefix == "" {
		return t.Name
	}
	return t.Prefix + ":" + t.Name
}

// TagLink attaches a tag to one entity.
type TagLink struct {
	store.Model
	RefEntityID string `gorm:"column:ref_entity_id;index" json:"ref_entity_id"`
	RefTagID    string `gorm:"column:ref_tag_id;index" json:"ref_tag_id"`
}

func (l TagLink) EntityID() string { return l.RefEntityID }
func (l TagLink) TagID() string    { return l.RefTagID }

type StudentTag struct{ TagLink }

func (StudentTag) TableName() string { return "tag_student" }

type ClassTag struct{ TagLink }

func (ClassTag) TableName() string { return "tag_class" }

type TeacherTag struct{ TagLink }

func (TeacherTag) TableName() string { return "tag_teacher" }

type CourseTag struct{ TagLink }

func (CourseTag) TableName() string { return "tag_course" }

type AddressItem struct {
	ZipCode  string `gorm:"column:zip_code;size:16" json:"zip_code"`
	County   string `gorm:"column:county;size:64" json:"county"`
	Town     string `gorm:"column:town;size:64" json:"town"`
	District string `gorm:"column:district;size:64" json:"district"`
	Area     string `gorm:"column:area;size:64" json:"area"`
	Detail   string `gorm:"column:detail;size:255" json:"detail"`
}

type Address struct {
	store.Model
	RefStudentID string      `gorm:"column:ref_student_id;uniqueIndex" json:"ref_student_id"`
	Permanent    AddressItem `gorm:"embedded;embeddedPrefix:permanent_" json:"permanent"`
	Mailing      AddressItem `gorm:"embedded;embeddedPrefix:mailing_" json:"mailing"`
	Other        AddressItem `gorm:"embedded;embeddedPrefix:other_" json:"other"`
}

func (Address) TableName() string { return "student_address" }

type Phone struct {
	store.Model
	RefStudentID string `gorm:"column:ref_student_id;uniqueIndex" json:"ref_student_id"`
	Permanent    string `gorm:"column:permanent_phone;size:64" json:"permanent"`
	Contact      string `gorm:"column:contact_phone;size:64" json:"contact"`
	Cell         string `gorm:"column:cell_phone;size:64" json:"cell"`
	Phone1       string `gorm:"column:phone1;size:64" json:"phone1"`
	Phone2       string `gorm:"column:phone2;size:64" json:"phone2"`
	Phone3       string `gorm:"column:phone3;size:64" json:"phone3"`
}

func (Phone) TableName() string { return "student_phone" }

type Guardian struct {
	Name            string `gorm:"column:name;size:255" json:"name"`
	IDNumber        string `gorm:"column:id_number;size:32" json:"id_number"`
	Nationality     string `gorm:"column:nationality;size:64" json:"nationality"`
	Job             string `gorm:"column:job;size:255" json:"job"`
	EducationDegree string `gorm:"column:education_degree;size:64" json:"education_degree"`
	Living          *bool  `gorm:"column:living" json:"living"`
	Phone           string `gorm:"column:phone;size:64" json:"phone"`
	Relationship    string `gorm:"column:relationship;size:32" json:"relationship"`
}

type Parent struct {
	store.Model
	RefStudentID string   `gorm:"column:ref_student_id;uniqueIndex" json:"ref_student_id"`
	Father       Guardian `gorm:"embedded;embeddedPrefix:father_" json:"father"`
	Mother       Guardian `gorm:"embedded;embeddedPrefix:mother_" json:"mother"`
	Custodian    Guardian `gorm:"embedded;embeddedPrefix:custodian_" json:"custodian"`
}

func (Parent) TableName() string { return "student_parent" }

// BeforeEnrollment is the student's previous school.
type BeforeEnrollment struct {
	store.Model
	RefStudentID       string `gorm:"column:ref_student_id;uniqueIndex" json:"ref_student_id"`
	School             string `gorm:"column:school;size:255" json:"school"`
	SchoolLocation     string `gorm:"column:school_location;size:255" json:"school_location"`
	ClassName          string `gorm:"column:class_name;size:64" json:"class_name"`
	SeatNo             *int   `gorm:"column:seat_no" json:"seat_no"`
	GraduateSchoolYear *int   `gorm:"column:graduate_school_year" json:"graduate_school_year"`
	Memo               string `gorm:"column:memo;type:text" json:"memo"`
}

func (BeforeEnrollment) TableName() string { return "before_enrollment" }

type LeaveInfo struct {
	store.Model
	RefStudentID   string `gorm:"column:ref_student_id;uniqueIndex" json:"ref_student_id"`
	SchoolYear     *int   `gorm:"column:school_year" json:"school_year"`
	Reason         string `gorm:"column:reason;size:255" json:"reason"`
	ClassName      string `gorm:"column:class_name;size:64" json:"class_name"`
	DepartmentName string `gorm:"column:dept_name;size:255" json:"department_name"`
	DiplomaNumber  string `gorm:"column:diploma_number;size:64" json:"diploma_number"`
	Memo           string `gorm:"column:memo;type:text" json:"memo"`
}

func (LeaveInfo) TableName() string { return "leave_info" }

type SemesterHistoryItem struct {
	RefStudentID   string `json:"ref_student_id,omitempty"`
	SchoolYear     int    `json:"school_year"`
	Semester       int    `json:"semester"`
	GradeYear      int    `json:"grade_year"`
	ClassName      string `json:"class_name"`
	SeatNo         *int   `json:"seat_no"`
	Teacher        string `json:"teacher"`
	DeptName       string `json:"dept_name"`
	SchoolDayCount *int   `json:"school_day_count"`
}

type SemesterHistory struct {
	store.Model
	RefStudentID string                                   `gorm:"column:ref_student_id;uniqueIndex" json:"ref_student_id"`
	Items        datatypes.JSONSlice[SemesterHistoryItem] `gorm:"column:items" json:"items"`
}

func (SemesterHistory) TableName() string { return "semester_history" }

type UpdateRecord struct {
	store.Model
	RefStudentID      string            `gorm:"column:ref_student_id;index" json:"ref_student_id"`
	RefBatchID        string            `gorm:"column:ref_batch_id" json:"ref_batch_id"`
	StudentName       string            `gorm:"column:student_name;size:255" json:"student_name"`
	StudentNumber     string            `gorm:"column:student_number;size:64" json:"student_number"`
	Gender            string            `gorm:"column:gender;size:8" json:"gender"`
	IDNumber          string            `gorm:"column:id_number;size:32" json:"id_number"`
	Birthdate         string            `gorm:"column:birthdate;size:32" json:"birthdate"`
	Department        string            `gorm:"column:department;size:255" json:"department"`
	GradeYear         string            `gorm:"column:grade_year;size:8" json:"grade_year"`
	SchoolYear        *int              `gorm:"column:school_year" json:"school_year"`
	Semester          *int              `gorm:"column:semester" json:"semester"`
	UpdateCode        string            `gorm:"column:update_code;size:16;index" json:"update_code"`
	UpdateDate        string            `gorm:"column:update_date;size:32" json:"update_date"`
	UpdateDescription string            `gorm:"column:update_description;size:255" json:"update_description"`
	ADDate            string            `gorm:"column:ad_date;size:32" json:"ad_date"`
	ADNumber          string            `gorm:"column:ad_number;size:64" json:"ad_number"`
	Comment           string            `gorm:"column:comment;type:text" json:"comment"`
	Attributes        datatypes.JSONMap `gorm:"column:attributes" json:"attributes"`
}

func (UpdateRecord) TableName() string { return "update_record" }

type UpdateRecordBatch struct {
	store.Model
	Name       string `gorm:"column:name;size:255" json:"name"`
	SchoolYear *int   `gorm:"column:school_year" json:"school_year"`
	Semester   *int   `gorm:"column:semester" json:"semester"`
	ADDate     string `gorm:"column:ad_date;size:32" json:"ad_date"`
	ADNumber   string `gorm:"column:ad_number;size:64" json:"ad_number"`
}

func (UpdateRecordBatch) TableName() string { return "update_record_batch" }
