package main

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shschool-data/config"
	"shschool-data/internal/batch"
	"shschool-data/internal/behavior"
	"shschool-data/internal/cache"
	"shschool-data/internal/curriculum"
	"shschool-data/internal/dsa"
	"shschool-data/internal/evaluation"
	"shschool-data/internal/logger"
	"shschool-data/internal/permrec"
	"shschool-data/internal/selectable"
)

const retryBackoff = 500 * time.Millisecond

type app struct {
	cfg      config.Config
	log      *zap.Logger
	db       *gorm.DB
	sources  selectable.Sources
	registry *selectable.Registry
}

func newApp() (*app, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	var caller dsa.Caller = dsa.NewHTTPCaller(cfg.ServiceURL, cfg.ServiceSession, cfg.ServiceTimeout, log)
	caller = dsa.WithRetry(caller, cfg.ServiceRetries, retryBackoff, log)

	src := buildSources(db, caller, batch.Options{
		MaxThreads:  cfg.BatchMaxThreads,
		PackageSize: cfg.BatchPackageSize,
		Log:         log,
	}, log)

	reg := selectable.NewRegistry(log)
	if err := selectable.RegisterDefaults(reg, src); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db, sources: src, registry: reg}, nil
}

func buildSources(db *gorm.DB, caller dsa.Caller, opts batch.Options, log *zap.Logger) selectable.Sources {
	cur := curriculum.New(db, caller, log)
	return selectable.Sources{
		Curriculum: cur,
		Permrec:    permrec.New(db, caller, cur, log),
		Evaluation: evaluation.New(db, caller, opts, log),
		Behavior:   behavior.New(db, caller, log),
	}
}

// invalidators are the remote mapping caches refreshed on a schedule.
func (a *app) invalidators() []cache.Invalidator {
	return []cache.Invalidator{
		a.sources.Permrec.PermrecStatus,
		a.sources.Permrec.UpdateCodes,
		a.sources.Behavior.MeritDemeritReduce,
		a.sources.Behavior.AbsenceMappings,
		a.sources.Behavior.PeriodMappings,
	}
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		if err := migrateLocal(db); err != nil {
			return nil, err
		}
		return db, nil
	default:
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "connect to database")
		}
		return db, nil
	}
}

// migrateLocal creates the schema for a standalone sqlite database.
func migrateLocal(db *gorm.DB) error {
	var models []any
	models = append(models, curriculum.Models()...)
	models = append(models, permrec.Models()...)
	models = append(models, evaluation.Models()...)
	models = append(models, behavior.Models()...)
	if err := db.AutoMigrate(models...); err != nil {
		return errors.Wrap(err, "migrate")
	}
	for _, ddl := range []string{curriculum.SubjectTableDDL, permrec.DepartmentDDL, behavior.ListDDL} {
		if err := db.Exec(ddl).Error; err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}
