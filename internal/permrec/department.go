package permrec

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shschool-data/internal/dsa"
	"shschool-data/internal/logger"
	"shschool-data/internal/store"
	"shschool-data/internal/util"
)

const departmentTable = "dept"

// Department is a school department, optionally split into a program after
// a colon, e.g. "綜合高中科:資訊應用學程-94".
type Department struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	FullName      string `json:"full_name"`
	Name          string `json:"name"`
	SubDepartment string `json:"sub_department"`
	RefTeacherID  string `json:"ref_teacher_id"`
}

// SetFullName normalizes full-width colons and derives Name and
// SubDepartment.
func (d *Department) SetFullName(full string) {
	full = strings.ReplaceAll(full, "：", ":")
	d.FullName = full
	d.Name = full
	d.SubDepartment = ""
	if i := strings.Index(full, ":"); i >= 0 {
		d.Name = full[:i]
		d.SubDepartment = full[strings.LastIndex(full, ":")+1:]
	}
}

// Load reads the service form <Department ID=""><Name/><Code/></Department>.
func (d *Department) Load(el *etree.Element) {
	d.ID = dsa.Attr(el, "ID")
	d.SetFullName(dsa.Text(el, "Name"))
	d.Code = dsa.Text(el, "Code")
}

type departmentRow struct {
	ID           string
	Name         string
	Code         string
	RefTeacherID *string
}

func (r departmentRow) record() Department {
	d := Department{ID: r.ID, Code: r.Code}
	d.SetFullName(r.Name)
	if r.RefTeacherID != nil {
		d.RefTeacherID = *r.RefTeacherID
	}
	return d
}

// DepartmentService works on the dept table with plain SQL; department ids
// are assigned by the database.
type DepartmentService struct {
	store.Notifier
	DB  *gorm.DB
	Log *zap.Logger
}

func NewDepartmentService(db *gorm.DB, log *zap.Logger) *DepartmentService {
	return &DepartmentService{DB: db, Log: logger.OrNop(log)}
}

func (s *DepartmentService) query(ctx context.Context, sql string, args ...any) ([]Department, error) {
	var rows []departmentRow
	if err := s.DB.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "select dept")
	}
	out := make([]Department, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (s *DepartmentService) SelectAll(ctx context.Context) ([]Department, error) {
	return s.query(ctx, "SELECT id, name, code, ref_teacher_id FROM dept ORDER BY id")
}

func (s *DepartmentService) SelectByID(ctx context.Context, id string) (*Department, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	recs, err := s.SelectByIDs(ctx, id)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (s *DepartmentService) SelectByIDs(ctx context.Context, ids ...string) ([]Department, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return []Department{}, nil
	}
	return s.query(ctx, "SELECT id, name, code, ref_teacher_id FROM dept WHERE id IN ? ORDER BY id", ids)
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Insert returns the number of rows written.
func (s *DepartmentService) Insert(ctx context.Context, recs ...Department) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	total := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range recs {
			res := tx.Exec("INSERT INTO dept (name, code, ref_teacher_id) VALUES (?, ?, ?)",
				d.FullName, d.Code, nullable(d.RefTeacherID))
			if res.Error != nil {
				return res.Error
			}
			total += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert dept")
	}
	s.Notify(store.ChangeEvent{Table: departmentTable, Kind: store.Inserted})
	return total, nil
}

func (s *DepartmentService) Update(ctx context.Context, recs ...Department) (int, error) {
	total := 0
	var ids []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range recs {
			if d.ID == "" {
				continue
			}
			res := tx.Exec("UPDATE dept SET name = ?, code = ?, ref_teacher_id = ? WHERE id = ?",
				d.FullName, d.Code, nullable(d.RefTeacherID), d.ID)
			if res.Error != nil {
				return res.Error
			}
			total += int(res.RowsAffected)
			ids = append(ids, d.ID)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "update dept")
	}
	if len(ids) > 0 {
		s.Notify(store.ChangeEvent{Table: departmentTable, Kind: store.Updated, IDs: ids})
	}
	return total, nil
}

func (s *DepartmentService) Delete(ctx context.Context, recs ...Department) (int, error) {
	ids := make([]string, 0, len(recs))
	for _, d := range recs {
		ids = append(ids, d.ID)
	}
	return s.DeleteByIDs(ctx, ids...)
}

func (s *DepartmentService) DeleteByIDs(ctx context.Context, ids ...string) (int, error) {
	ids = util.CompactIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.DB.WithContext(ctx).Exec("DELETE FROM dept WHERE id IN ?", ids)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete dept")
	}
	if res.RowsAffected > 0 {
		s.Notify(store.ChangeEvent{Table: departmentTable, Kind: store.Deleted, IDs: ids})
	}
	return int(res.RowsAffected), nil
}

func (s *DepartmentService) DeleteByID(ctx context.Context, id string) (int, error) {
	return s.DeleteByIDs(ctx, id)
}
