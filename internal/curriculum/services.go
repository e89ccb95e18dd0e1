package curriculum

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/dsa"
)

type Services struct {
	ProgramPlans       *ProgramPlanService
	ScoreCalcRules     *ScoreCalcRuleService
	SubjectTables      *SubjectTableService
	AssessmentSetups   *AssessmentSetupService
	Exams              *ExamService
	AEIncludes         *AEIncludeService
	MoralScoreCalcRule *MoralScoreCalcRuleService
}

func New(db *gorm.DB, caller dsa.Caller, log *zap.Logger) *Services {
	setups := NewAssessmentSetupService(db, log)
	exams := NewExamService(db, log)
	return &Services{
		ProgramPlans:       NewProgramPlanService(db, log),
		ScoreCalcRules:     NewScoreCalcRuleService(db, log),
		SubjectTables:      NewSubjectTableService(db, log),
		AssessmentSetups:   setups,
		Exams:              exams,
		AEIncludes:         NewAEIncludeService(db, setups, exams, log),
		MoralScoreCalcRule: NewMoralScoreCalcRuleService(caller, log),
	}
}

func Models() []any {
	return []any{&ProgramPlan{}, &ScoreCalcRule{}, &AssessmentSetup{}, &Exam{}, &AEInclude{}}
}

// SubjectTableDDL creates subj_table in local sqlite mode.
const SubjectTableDDL = `CREATE TABLE IF NOT EXISTS subj_table (
	id TEXT PRIMARY KEY,
	catalog TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT ''
)`
