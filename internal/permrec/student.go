package permrec

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

type StudentService struct {
	*store.Facade[Student, *Student]
}

func NewStudentService(db *gorm.DB, log *zap.Logger) *StudentService {
	return &StudentService{Facade: store.NewFacade[Student](db, log)}
}

func (s *StudentService) SelectByClassID(ctx context.Context, classID string) ([]Student, error) {
	return s.SelectByClassIDs(ctx, classID)
}

func (s *StudentService) SelectByClassIDs(ctx context.Context, classIDs ...string) ([]Student, error) {
	classIDs = util.CompactIDs(classIDs)
	if len(classIDs) == 0 {
		return []Student{}, nil
	}
	return s.Where(ctx, "ref_class_id IN ?", classIDs)
}

func (s *StudentService) SelectByClass(ctx context.Context, c Class) ([]Student, error) {
	return s.SelectByClassIDs(ctx, c.ID)
}

func (s *StudentService) SelectByClasses(ctx context.Context, classes []Class) ([]Student, error) {
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return s.SelectByClassIDs(ctx, ids...)
}

type ClassService struct {
	*store.Facade[Class, *Class]
}

func NewClassService(db *gorm.DB, log *zap.Logger) *ClassService {
	return &ClassService{Facade: store.NewFacade[Class](db, log)}
}

type TeacherService struct {
	*store.Facade[Teacher, *Teacher]
}

func NewTeacherService(db *gorm.DB, log *zap.Logger) *TeacherService {
	return &TeacherService{Facade: store.NewFacade[Teacher](db, log)}
}
