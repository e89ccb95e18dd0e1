package selectable

import (
	"github.com/pkg/errors"

	"shschool-data/internal/behavior"
	"shschool-data/internal/curriculum"
	"shschool-data/internal/evaluation"
	"shschool-data/internal/permrec"
)

// Sources are the service bundles the default methods read from.
type Sources struct {
	Curriculum *curriculum.Services
	Permrec    *permrec.Services
	Evaluation *evaluation.Services
	Behavior   *behavior.Services
}

type entry struct {
	name     string
	category string
	fn       Func
}

// RegisterDefaults registers the standard reporting selects, grouped by the
// category shown to users.
func RegisterDefaults(reg *Registry, src Sources) error {
	cur, pr, ev, bh := src.Curriculum, src.Permrec, src.Evaluation, src.Behavior
	if cur == nil || pr == nil || ev == nil || bh == nil {
		return errors.New("register defaults: missing service bundle")
	}

	entries := []entry{
		{"SHSchool.SHStudent.SelectAll", "學籍.學生", List(pr.Students.SelectAll)},
		{"SHSchool.SHClass.SelectAll", "學籍.班級", List(pr.Classes.SelectAll)},
		{"SHSchool.SHTeacher.SelectAll", "學籍.教師", List(pr.Teachers.SelectAll)},
		{"SHSchool.SHCourse.SelectAll", "學籍.課程", List(pr.Courses.SelectAll)},
		{"SHSchool.SHDepartment.SelectAll", "學籍.科別", List(pr.Departments.SelectAll)},
		{"SHSchool.SHTagConfig.SelectAll", "學籍.類別設定", List(pr.TagConfigs.SelectAll)},
		{"SHSchool.SHStudentTag.SelectAll", "學籍.學生類別", List(pr.StudentTags.SelectAll)},
		{"SHSchool.SHClassTag.SelectAll", "學籍.班級類別", List(pr.ClassTags.SelectAll)},
		{"SHSchool.SHTeacherTag.SelectAll", "學籍.教師類別", List(pr.TeacherTags.SelectAll)},
		{"SHSchool.SHCourseTag.SelectAll", "學籍.課程類別", List(pr.CourseTags.SelectAll)},
		{"SHSchool.SHAddress.SelectAll", "學籍.學生地址", List(pr.Addresses.SelectAll)},
		{"SHSchool.SHPhone.SelectAll", "學籍.學生電話", List(pr.Phones.SelectAll)},
		{"SHSchool.SHParent.SelectAll", "學籍.學生家長及監護人", List(pr.Parents.SelectAll)},
		{"SHSchool.SHLeaveInfo.SelectAll", "學籍.離校資訊", List(pr.LeaveInfos.SelectAll)},
		{"SHSchool.SHBeforeEnrollment.SelectAll", "學籍.前級畢業資訊", List(pr.BeforeEnrollments.SelectAll)},
		{"SHSchool.SHUpdateRecord.SelectAll", "學籍.異動記錄", List(pr.UpdateRecords.SelectAll)},
		{"SHSchool.SHSemesterHistory.SelectAllDetail", "學籍.學期歷程", List(pr.SemesterHistories.SelectAllDetail)},
		{"SHSchool.SHPermrecStatusMapping.SelectAll", "學籍.學籍身份對照表", List(pr.PermrecStatus.SelectAll)},
		{"SHSchool.SHUpdateCodeMapping.SelectAll", "學籍.異動代號對照表", List(pr.UpdateCodes.SelectAll)},

		{"SHSchool.SHSemesterScore.SelectAllSubjectScore", "成績.科目成績", List(ev.SemesterScores.SelectAllSubjectScore)},
		{"SHSchool.SHSCAttend.SelectAll", "成績.學生修課", List(ev.SCAttends.SelectAll)},
		{"SHSchool.SHSCETake.SelectAll", "成績.評量成績", List(ev.SCETakes.SelectAll)},
		{"SHSchool.SHTCInstruct.SelectAll", "成績.教師授課", List(ev.TCInstructs.SelectAll)},
		{"SHSchool.SHExam.SelectAll", "成績.試別", List(cur.Exams.SelectAll)},
		{"SHSchool.SHAssessmentSetup.SelectAll", "成績.評量設定", List(cur.AssessmentSetups.SelectAll)},
		{"SHSchool.SHAEInclude.SelectAll", "成績.評分樣板", List(cur.AEIncludes.SelectAll)},
		{"SHProgramPlan.SHProgramPlan.SelectAllDetail", "成績.課程規劃", List(cur.ProgramPlans.SelectAllDetail)},
		{"SHSchool.SHScoreCalcRule.SelectAll", "成績.成績計算規則", List(cur.ScoreCalcRules.SelectAll)},

		{"SHSchool.SHAttendance.SelectAllAttendancePeriod", "學務.缺曠", List(bh.Attendances.SelectAllAttendancePeriod)},
		{"SHSchool.SHMerit.SelectAll", "學務.獎勵", List(bh.Merits.SelectAll)},
		{"SHSchool.SHDemerit.SelectAll", "學務.懲戒", List(bh.Demerits.SelectAll)},
		{"SHSchool.SHDiscipline.SelectAll", "學務.獎懲", List(bh.Disciplines.SelectAll)},
		{"SHSchool.SHAbsenceMapping.SelectAll", "學務.假別對照表", List(bh.AbsenceMappings.SelectAll)},
		{"SHSchool.SHPeriodMapping.SelectAll", "學務.節次對照表", List(bh.PeriodMappings.SelectAll)},
	}

	for _, e := range entries {
		if err := reg.Register(e.name, e.category, e.fn); err != nil {
			return errors.Wrap(err, "register defaults")
		}
	}
	return nil
}
