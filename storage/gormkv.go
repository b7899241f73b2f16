package storage

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRecord is one stored key with its full serialized value.
type kvRecord struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (kvRecord) TableName() string {
	return "kv_records"
}

// GormKV is a Backend persisted as rows in a gorm-managed table, one row
// per key. It gives the notes store durable storage with the same
// whole-value-replacement semantics as the in-memory backend.
type GormKV struct {
	db *gorm.DB
}

func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrating kv table")
	}
	return &GormKV{db: db}, nil
}

func (g *GormKV) Get(key string) (string, bool) {
	var rec kvRecord
	err := g.db.First(&rec, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", false
	}
	if err != nil {
		logrus.Error(errors.Wrapf(err, "reading key %q", key))
		return "", false
	}
	return rec.Value, true
}

func (g *GormKV) Set(key, value string) error {
	rec := kvRecord{Key: key, Value: value}
	err := g.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return errors.Wrapf(err, "writing key %q", key)
	}
	return nil
}

func (g *GormKV) Delete(key string) error {
	err := g.db.Delete(&kvRecord{}, "key = ?", key).Error
	if err != nil {
		return errors.Wrapf(err, "deleting key %q", key)
	}
	return nil
}
