package config

import (
	"log"

	"booktrack/internal/entity"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disable prepared statements completely
	}), &gorm.Config{
		PrepareStmt: false,
	})
	if err != nil {
		log.Fatalf("error connect to database %s", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Book{},
		&entity.UserBook{},
		&entity.SecurityLog{},
	); err != nil {
		log.Printf("error migrate database %s", err)
	}
	return db
}
