package permrec

import (
	"testing"

	"gorm.io/gorm"

	"shschool-data/internal/curriculum"
	"shschool-data/internal/dsa"
	"shschool-data/internal/store/storetest"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	models := append(Models(), curriculum.Models()...)
	db := storetest.NewDB(t, models...)
	if err := db.Exec(DepartmentDDL).Error; err != nil {
		t.Fatalf("create dept: %v", err)
	}
	return db
}

func newTestServices(t *testing.T) (*Services, *curriculum.Services, *gorm.DB, *dsa.StubCaller) {
	t.Helper()
	db := newTestDB(t)
	stub := dsa.NewStubCaller()
	cur := curriculum.New(db, stub, nil)
	return New(db, stub, cur, nil), cur, db, stub
}

func intPtr(i int) *int { return &i }
