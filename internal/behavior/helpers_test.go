package behavior

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"shschool-data/internal/store/storetest"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := storetest.NewDB(t, Models()...)
	if err := db.Exec(ListDDL).Error; err != nil {
		t.Fatalf("create list: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayp(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}
