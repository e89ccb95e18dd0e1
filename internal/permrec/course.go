package permrec

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

type CourseService struct {
	*store.Facade[Course, *Course]
}

func NewCourseService(db *gorm.DB, log *zap.Logger) *CourseService {
	return &CourseService{Facade: store.NewFacade[Course](db, log)}
}

// term limits a query to one school year and semester. A nil value leaves
// that column unfiltered.
func term(schoolYear, semester *int) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if schoolYear != nil {
			db = db.Where("school_year = ?", *schoolYear)
		}
		if semester != nil {
			db = db.Where("semester = ?", *semester)
		}
		return db
	}
}

func (s *CourseService) SelectByClass(ctx context.Context, schoolYear, semester *int, classIDs ...string) ([]Course, error) {
	classIDs = util.CompactIDs(classIDs)
	if len(classIDs) == 0 {
		return []Course{}, nil
	}
	return s.Find(ctx, term(schoolYear, semester), func(db *gorm.DB) *gorm.DB {
		return db.Where("ref_class_id IN ?", classIDs)
	}, store.OrderByID)
}

func (s *CourseService) SelectByClasses(ctx context.Context, schoolYear, semester *int, classes []Class) ([]Course, error) {
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return s.SelectByClass(ctx, schoolYear, semester, ids...)
}

// SelectBySchoolYearAndSemester optionally narrows to one course name.
func (s *CourseService) SelectBySchoolYearAndSemester(ctx context.Context, schoolYear, semester *int, name string) ([]Course, error) {
	return s.Find(ctx, term(schoolYear, semester), func(db *gorm.DB) *gorm.DB {
		if name != "" {
			db = db.Where("course_name = ?", name)
		}
		return db
	}, store.OrderByID)
}
