// Package sqlite is a kv driver backed by a SQLite database through GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MrSnakeDoc/tuck/internal/kv"
)

func init() {
	kv.Register("sqlite", Open)
}

// Entry is one key of one suite.
type Entry struct {
	Namespace string `gorm:"primaryKey;size:255"`
	Key       string `gorm:"column:entry_key;primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// Options for the sqlite driver.
type Options struct {
	// Path overrides the database location, default <dir>/<suite>.db.
	Path string `mapstructure:"path"`
	// BusyTimeoutMS is passed to SQLite so concurrent writers wait instead of failing.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms"`
}

func (o *Options) ApplyDefaults() {
	if o.BusyTimeoutMS == 0 {
		o.BusyTimeoutMS = 5000
	}
}

// Namespace is a suite stored in SQLite.
type Namespace struct {
	db    *gorm.DB
	suite string
}

// Open is the kv.Factory for the sqlite driver.
func Open(_ context.Context, cfg kv.Config) (kv.Namespace, error) {
	var opts Options
	if err := kv.DecodeOptions(cfg.Options, &opts); err != nil {
		return nil, err
	}
	path := opts.Path
	if path == "" {
		if cfg.Dir == "" {
			return nil, errors.New("dir or path is required for sqlite driver")
		}
		path = filepath.Join(cfg.Dir, cfg.Suite+".db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", path, opts.BusyTimeoutMS)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Namespace{db: db, suite: cfg.Suite}, nil
}

func (n *Namespace) Name() string { return "sqlite:" + n.suite }

func (n *Namespace) Get(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := n.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", n.suite, key).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return e.Value, nil
}

func (n *Namespace) Set(ctx context.Context, key string, value []byte) error {
	return upsert(n.db.WithContext(ctx), n.suite, key, value)
}

func (n *Namespace) Delete(ctx context.Context, key string) error {
	err := n.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", n.suite, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Update runs the read-modify-write inside one database transaction.
func (n *Namespace) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	return n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Entry
		err := tx.Where("namespace = ? AND entry_key = ?", n.suite, key).Take(&e).Error
		found := true
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
		} else if err != nil {
			return fmt.Errorf("update %s: %w", key, err)
		}

		next, err := fn(e.Value, found)
		if err != nil {
			return err
		}
		return upsert(tx, n.suite, key, next)
	})
}

func (n *Namespace) Ping(ctx context.Context) error {
	sqlDB, err := n.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (n *Namespace) Close() error {
	sqlDB, err := n.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, suite, key string, value []byte) error {
	e := Entry{Namespace: suite, Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

var (
	_ kv.Namespace = (*Namespace)(nil)
	_ kv.Updater   = (*Namespace)(nil)
)
