package behavior

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/dsa"
)

// Services bundles the student-affairs services.
type Services struct {
	Attendances        *AttendanceService
	Disciplines        *DisciplineService
	Merits             *DisciplineService
	Demerits           *DisciplineService
	MeritDemeritReduce *MeritDemeritReduceService
	AbsenceMappings    *AbsenceMappingService
	PeriodMappings     *PeriodMappingService
	Morality           *MoralityService
}

func New(db *gorm.DB, caller dsa.Caller, log *zap.Logger) *Services {
	return &Services{
		Attendances:        NewAttendanceService(db, log),
		Disciplines:        NewDisciplineService(db, log),
		Merits:             NewMeritService(db, log),
		Demerits:           NewDemeritService(db, log),
		MeritDemeritReduce: NewMeritDemeritReduceService(caller, log),
		AbsenceMappings:    NewAbsenceMappingService(caller, log),
		PeriodMappings:     NewPeriodMappingService(caller, log),
		Morality:           NewMoralityService(db, log),
	}
}

func Models() []any {
	return []any{&Attendance{}, &Discipline{}}
}
