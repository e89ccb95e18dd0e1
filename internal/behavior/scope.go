package behavior

import (
	"time"

	"gorm.io/gorm"

	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

func inIDs(column string, ids []string) store.Scope {
	ids = util.CompactIDs(ids)
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where(column+" IN ?", ids)
	}
}

func inInts(column string, vals []int) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if len(vals) == 0 {
			return db
		}
		return db.Where(column+" IN ?", vals)
	}
}

// dayRange keeps rows whose column falls on a day between start and end,
// both inclusive. Nil bounds are open.
func dayRange(column string, start, end *time.Time) store.Scope {
	from, hasFrom, to, hasTo := util.DateRange(start, end)
	return func(db *gorm.DB) *gorm.DB {
		if hasFrom {
			db = db.Where(column+" >= ?", from)
		}
		if hasTo {
			db = db.Where(column+" < ?", to)
		}
		return db
	}
}

// onDays keeps rows whose column falls on any of days.
func onDays(column string, days []time.Time) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if len(days) == 0 {
			return db
		}
		or := db.Session(&gorm.Session{NewDB: true})
		for i, d := range days {
			from, _, to, _ := util.DateRange(&d, &d)
			if i == 0 {
				or = or.Where(column+" >= ? AND "+column+" < ?", from, to)
				continue
			}
			or = or.Or(column+" >= ? AND "+column+" < ?", from, to)
		}
		return db.Where(or)
	}
}

// inTerms keeps rows of any listed school year and semester.
func inTerms(terms []Term) store.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if len(terms) == 0 {
			return db
		}
		or := db.Session(&gorm.Session{NewDB: true})
		for i, t := range terms {
			if i == 0 {
				or = or.Where("school_year = ? AND semester = ?", t.SchoolYear, t.Semester)
				continue
			}
			or = or.Or("school_year = ? AND semester = ?", t.SchoolYear, t.Semester)
		}
		return db.Where(or)
	}
}

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
