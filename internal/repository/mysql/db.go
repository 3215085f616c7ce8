package mysql

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

var DB *gorm.DB

// InitDB 连接 MySQL 并设置连接池
func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return pkgerrors.Wrap(err, "open mysql")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return pkgerrors.Wrap(err, "get sql db")
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
	DB = db
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Message{},
		&model.Application{},
		&model.ApplicationOutbox{},
	)
}

// notFoundOr 把 gorm 未找到转换成业务错误，其余错误带上下文包装
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.NotFoundError(what + " not found")
	}
	return pkgerrors.Wrap(err, what)
}
