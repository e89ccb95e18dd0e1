package permrec

import (
	"context"

	"shschool-data/internal/curriculum"
	"shschool-data/internal/util"
)

// Resolver follows foreign keys between records on demand. Nothing is
// cached; every call reads through the services.
//
// Program plan, score rule and department use override-then-inherit: a
// value set on the student wins, otherwise the student's class decides.
type Resolver struct {
	Students         *StudentService
	Classes          *ClassService
	Teachers         *TeacherService
	Departments      DepartmentReader
	ProgramPlans     ProgramPlanReader
	ScoreCalcRules   ScoreCalcRuleReader
	AssessmentSetups AssessmentSetupReader
}

func (r *Resolver) StudentClass(ctx context.Context, s Student) (*Class, error) {
	return r.Classes.SelectByID(ctx, s.RefClassID)
}

func (r *Resolver) StudentProgramPlan(ctx context.Context, s Student) (*curriculum.ProgramPlan, error) {
	if s.OverrideProgramPlanID != "" {
		return r.ProgramPlans.SelectByID(ctx, s.OverrideProgramPlanID)
	}
	c, err := r.StudentClass(ctx, s)
	if err != nil || c == nil {
		return nil, err
	}
	return r.ClassProgramPlan(ctx, *c)
}

func (r *Resolver) StudentScoreCalcRule(ctx context.Context, s Student) (*curriculum.ScoreCalcRule, error) {
	if s.OverrideScoreCalcRuleID != "" {
		return r.ScoreCalcRules.SelectByID(ctx, s.OverrideScoreCalcRuleID)
	}
	c, err := r.StudentClass(ctx, s)
	if err != nil || c == nil {
		return nil, err
	}
	return r.ClassScoreCalcRule(ctx, *c)
}

// StudentDepartment falls back to the class department when the override
// is unset or points at a department that no longer exists.
func (r *Resolver) StudentDepartment(ctx context.Context, s Student) (*Department, error) {
	if s.OverrideDepartmentID != "" {
		d, err := r.Departments.SelectByID(ctx, s.OverrideDepartmentID)
		if err != nil || d != nil {
			return d, err
		}
	}
	c, err := r.StudentClass(ctx, s)
	if err != nil || c == nil {
		return nil, err
	}
	return r.ClassDepartment(ctx, *c)
}

// StudentDepartmentID is the override id when set, else the class's
// department id, else "".
func (r *Resolver) StudentDepartmentID(ctx context.Context, s Student) (string, error) {
	if s.OverrideDepartmentID != "" {
		return s.OverrideDepartmentID, nil
	}
	c, err := r.StudentClass(ctx, s)
	if err != nil || c == nil {
		return "", err
	}
	return c.RefDepartmentID, nil
}

// ClassStudents returns nil for a class without an id.
func (r *Resolver) ClassStudents(ctx context.Context, c Class) ([]Student, error) {
	if c.ID == "" {
		return nil, nil
	}
	return r.Students.SelectByClassID(ctx, c.ID)
}

func (r *Resolver) ClassTeacher(ctx context.Context, c Class) (*Teacher, error) {
	return r.Teachers.SelectByID(ctx, c.RefTeacherID)
}

func (r *Resolver) ClassDepartment(ctx context.Context, c Class) (*Department, error) {
	if c.RefDepartmentID == "" {
		return nil, nil
	}
	return r.Departments.SelectByID(ctx, c.RefDepartmentID)
}

func (r *Resolver) ClassProgramPlan(ctx context.Context, c Class) (*curriculum.ProgramPlan, error) {
	return r.ProgramPlans.SelectByID(ctx, c.RefProgramPlanID)
}

func (r *Resolver) ClassScoreCalcRule(ctx context.Context, c Class) (*curriculum.ScoreCalcRule, error) {
	return r.ScoreCalcRules.SelectByID(ctx, c.RefScoreCalcRuleID)
}

func (r *Resolver) DepartmentTeacher(ctx context.Context, d Department) (*Teacher, error) {
	return r.Teachers.SelectByID(ctx, d.RefTeacherID)
}

func (r *Resolver) CourseClass(ctx context.Context, c Course) (*Class, error) {
	return r.Classes.SelectByID(ctx, c.RefClassID)
}

func (r *Resolver) CourseAssessmentSetup(ctx context.Context, c Course) (*curriculum.AssessmentSetup, error) {
	return r.AssessmentSetups.SelectByID(ctx, c.RefAssessmentSetupID)
}

func (r *Resolver) TagStudent(ctx context.Context, t StudentTag) (*Student, error) {
	return r.Students.SelectByID(ctx, t.RefEntityID)
}

// ScoreCalcRulesByStudentIDs resolves the effective rule of many students
// with one query per table. Students without a rule are absent from the map.
func (r *Resolver) ScoreCalcRulesByStudentIDs(ctx context.Context, ids ...string) (map[string]curriculum.ScoreCalcRule, error) {
	students, err := r.Students.SelectByIDs(ctx, ids...)
	if err != nil {
		return nil, err
	}

	classIDs := make([]string, 0, len(students))
	for _, s := range students {
		if s.OverrideScoreCalcRuleID == "" {
			classIDs = append(classIDs, s.RefClassID)
		}
	}
	classes, err := r.Classes.SelectByIDs(ctx, util.CompactIDs(classIDs)...)
	if err != nil {
		return nil, err
	}
	classRule := make(map[string]string, len(classes))
	for _, c := range classes {
		classRule[c.ID] = c.RefScoreCalcRuleID
	}

	want := make(map[string]string, len(students))
	ruleIDs := make([]string, 0, len(students))
	for _, s := range students {
		ruleID := s.OverrideScoreCalcRuleID
		if ruleID == "" {
			ruleID = classRule[s.RefClassID]
		}
		if ruleID == "" {
			continue
		}
		want[s.ID] = ruleID
		ruleIDs = append(ruleIDs, ruleID)
	}

	rules, err := r.ScoreCalcRules.SelectByIDs(ctx, ruleIDs...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]curriculum.ScoreCalcRule, len(rules))
	for _, rule := range rules {
		byID[rule.ID] = rule
	}

	out := make(map[string]curriculum.ScoreCalcRule, len(want))
	for sid, rid := range want {
		if rule, ok := byID[rid]; ok {
			out[sid] = rule
		}
	}
	return out, nil
}
