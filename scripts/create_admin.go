// Bootstrap an admin account.
//
// Registration only creates student accounts, so the first admin has to
// be created out of band. Run once after deploying:
//
//	go run scripts/create_admin.go -email admin@example.com -password <pw>

package main

import (
	"flag"
	"log"

	"github.com/OmarCypha700/nexus-academy-backend/internal/config"
	"github.com/OmarCypha700/nexus-academy-backend/internal/model"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/database"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "admin email")
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var existing model.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		log.Fatalf("a user with email %s already exists", *email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &model.User{
		Username: *username,
		Email:    *email,
		Password: string(hash),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin account %s created (id %d)", *email, admin.ID)
}
