package database

import (
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"
)

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Tracing         bool
	AutoMigrate     bool
}

// FromConfig 根据配置文件生成连接参数
func FromConfig() Options {
	c := config.ConfigInfo.Database
	opts := Options{
		Driver:       c.Driver,
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxIdleConns,
		Tracing:      config.ConfigInfo.Jaeger.Enabled,
		AutoMigrate:  c.AutoMigrate,
	}
	lifetime, err := time.ParseDuration(c.ConnMaxLifetime)
	if err != nil {
		hlog.Warnf("Failed to parse conn_max_lifetime %q: %v", c.ConnMaxLifetime, err)
		lifetime = time.Hour
	}
	opts.ConnMaxLifetime = lifetime

	switch c.Driver {
	case "sqlite":
		opts.DSN = c.SqlitePath + "?_foreign_keys=on"
	default:
		opts.Driver = "mysql"
		opts.DSN = c.Username + ":" + c.Password + "@tcp(" + c.Addr + ")/" + c.Database +
			"?charset=" + c.Charset + "&parseTime=True&loc=UTC"
	}
	return opts
}

func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "mysql":
		dialector = mysql.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, errors.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s failed", opts.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithMessage(err, "get sql.DB failed")
	}
	if opts.Driver == "sqlite" {
		// sqlite只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if opts.Tracing {
		if err = db.Use(gormopentracing.New()); err != nil {
			return nil, errors.WithMessage(err, "register opentracing plugin failed")
		}
	}

	if opts.AutoMigrate {
		if err = Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	hlog.Info("Starting tables migration...")
	if err := db.AutoMigrate(model.Models()...); err != nil {
		hlog.Errorf("Failed to migrate tables: %v", err)
		return errors.WithMessage(err, "auto migrate failed")
	}
	hlog.Info("Tables migration completed successfully")
	return nil
}
