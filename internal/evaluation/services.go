package evaluation

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/batch"
	"shschool-data/internal/dsa"
)

// Services bundles the score and course-result services. The caller should
// retry transient faults; every remote score operation is safe to repeat.
type Services struct {
	SemesterScores        *SemesterScoreService
	SemesterEntryScores   *SemesterEntryScoreService
	SchoolYearScores      *SchoolYearScoreService
	SchoolYearEntryScores *SchoolYearEntryScoreService
	GradScores            *GradScoreService
	SCAttends             *SCAttendService
	SCETakes              *SCETakeService
	TCInstructs           *TCInstructService
	MoralScores           *MoralScoreService
}

func New(db *gorm.DB, caller dsa.Caller, opts batch.Options, log *zap.Logger) *Services {
	if opts.Log == nil {
		opts.Log = log
	}
	return &Services{
		SemesterScores:        NewSemesterScoreService(caller, opts, log),
		SemesterEntryScores:   NewSemesterEntryScoreService(caller, opts, log),
		SchoolYearScores:      NewSchoolYearScoreService(caller, opts, log),
		SchoolYearEntryScores: NewSchoolYearEntryScoreService(caller, log),
		GradScores:            NewGradScoreService(caller, opts, log),
		SCAttends:             NewSCAttendService(db, log),
		SCETakes:              NewSCETakeService(db, log),
		TCInstructs:           NewTCInstructService(db, log),
		MoralScores:           NewMoralScoreService(db, log),
	}
}

func Models() []any {
	return []any{&SCAttend{}, &SCETake{}, &TCInstruct{}, &MoralScore{}}
}
