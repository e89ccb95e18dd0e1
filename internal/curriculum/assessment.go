package curriculum

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

type AssessmentSetupService struct {
	*store.Facade[AssessmentSetup, *AssessmentSetup]
}

func NewAssessmentSetupService(db *gorm.DB, log *zap.Logger) *AssessmentSetupService {
	return &AssessmentSetupService{Facade: store.NewFacade[AssessmentSetup](db, log)}
}

type ExamService struct {
	*store.Facade[Exam, *Exam]
}

func NewExamService(db *gorm.DB, log *zap.Logger) *ExamService {
	return &ExamService{Facade: store.NewFacade[Exam](db, log)}
}

// SelectAll orders exams the way they are displayed.
func (s *ExamService) SelectAll(ctx context.Context) ([]Exam, error) {
	return s.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order").Order("id")
	})
}

type AEIncludeService struct {
	*store.Facade[AEInclude, *AEInclude]
	Setups *AssessmentSetupService
	Exams  *ExamService
}

func NewAEIncludeService(db *gorm.DB, setups *AssessmentSetupService, exams *ExamService, log *zap.Logger) *AEIncludeService {
	return &AEIncludeService{
		Facade: store.NewFacade[AEInclude](db, log),
		Setups: setups,
		Exams:  exams,
	}
}

func (s *AEIncludeService) SelectByAssessmentSetupID(ctx context.Context, setupID string) ([]AEInclude, error) {
	return s.SelectByAssessmentSetupIDs(ctx, setupID)
}

func (s *AEIncludeService) SelectByAssessmentSetupIDs(ctx context.Context, setupIDs ...string) ([]AEInclude, error) {
	setupIDs = util.CompactIDs(setupIDs)
	if len(setupIDs) == 0 {
		return []AEInclude{}, nil
	}
	return s.Where(ctx, "ref_exam_template_id IN ?", setupIDs)
}

func (s *AEIncludeService) AssessmentSetup(ctx context.Context, rec AEInclude) (*AssessmentSetup, error) {
	return s.Setups.SelectByID(ctx, rec.RefAssessmentSetupID)
}

func (s *AEIncludeService) Exam(ctx context.Context, rec AEInclude) (*Exam, error) {
	return s.Exams.SelectByID(ctx, rec.RefExamID)
}
