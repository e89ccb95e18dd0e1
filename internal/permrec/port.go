package permrec

import (
	"context"

	"shschool-data/internal/curriculum"
	"shschool-data/internal/store"
)

// TagNamer lists the tag full names attached to one entity.
type TagNamer interface {
	FullNames(ctx context.Context, entityID string) ([]string, error)
}

// Curriculum lookups the resolver navigates to.
type (
	ProgramPlanReader     = store.Reader[curriculum.ProgramPlan]
	ScoreCalcRuleReader   = store.Reader[curriculum.ScoreCalcRule]
	AssessmentSetupReader = store.Reader[curriculum.AssessmentSetup]
)

type DepartmentReader interface {
	SelectByID(ctx context.Context, id string) (*Department, error)
}

var (
	_ TagNamer              = (*StudentTagService)(nil)
	_ DepartmentReader      = (*DepartmentService)(nil)
	_ store.Reader[Student] = (*StudentService)(nil)
)
