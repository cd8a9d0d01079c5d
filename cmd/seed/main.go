package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"biblio/internal/config"
	"biblio/internal/db"
	"biblio/internal/model"
	"biblio/internal/repository"
)

// Seeds an admin user and a starter catalog. Role assignment has no
// HTTP route, so this is the only way an admin comes to exist.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Borrow{},
		&model.CirculationLog{},
	); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)

	adminUsername := getEnv("ADMIN_USERNAME", "admin")
	adminPassword := getEnv("ADMIN_PASSWORD", "admin123")

	if _, err := userRepo.FindByUsername(ctx, adminUsername); err == nil {
		logrus.Printf("admin %q already exists, skipping", adminUsername)
	} else if err != gorm.ErrRecordNotFound {
		logrus.Fatalf("check admin: %v", err)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
		if err != nil {
			logrus.Fatalf("hash admin password: %v", err)
		}
		admin := &model.User{
			Username:     adminUsername,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			logrus.Fatalf("create admin: %v", err)
		}
		logrus.Printf("created admin %q (id=%d)", adminUsername, admin.ID)
	}

	books, err := bookRepo.ListAll(ctx)
	if err != nil {
		logrus.Fatalf("list books: %v", err)
	}
	if len(books) > 0 {
		logrus.Printf("catalog already has %d books, skipping", len(books))
		return
	}

	starter := []model.Book{
		{Title: "Dune", Author: "Frank Herbert", Available: true},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Available: true},
		{Title: "Neuromancer", Author: "William Gibson", Available: true},
		{Title: "The Dispossessed", Author: "Ursula K. Le Guin", Available: true},
		{Title: "Foundation", Author: "Isaac Asimov", Available: true},
	}
	for i := range starter {
		if err := bookRepo.Create(ctx, &starter[i]); err != nil {
			logrus.Fatalf("create book %q: %v", starter[i].Title, err)
		}
	}
	logrus.Printf("seeded %d books", len(starter))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
