package db

import (
	"log"
	"os"
	"quill/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects to the database and migrates the schema.
// DATABASE_URL selects Postgres; without it a local sqlite file is used.
func Init() {
	var (
		dialector gorm.Dialector
		dsn       = os.Getenv("DATABASE_URL")
	)
	if dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "blog.db"
		}
		dialector = sqlite.Open(path)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Migrate creates the three tables and their foreign keys if absent.
// Destructive schema changes are not handled here; changing a column in an
// incompatible way means wiping the database and starting over.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
	)
}
