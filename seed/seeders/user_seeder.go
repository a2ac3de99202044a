package seeders

import (
	"context"
	"errors"
	"log"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/services"
	"gorm.io/gorm"
)

// UserSeeder handles seeding demo users
type UserSeeder struct {
	db *services.DatabaseService
}

func NewUserSeeder(db *services.DatabaseService) *UserSeeder {
	return &UserSeeder{db: db}
}

// SeedUsers creates the demo accounts that do not exist yet and returns all of them.
func (s *UserSeeder) SeedUsers(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(demoUsers))

	for _, demo := range demoUsers {
		var existing model.User
		err := s.db.Db().WithContext(ctx).Where("email = ?", demo.Email).First(&existing).Error
		if err == nil {
			log.Printf("User %s already exists, skipping", demo.Email)
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error checking user %s: %v", demo.Email, err)
			return nil, err
		}

		user := demo
		created, err := s.db.Users().CreateUser(ctx, &user)
		if err != nil {
			log.Printf("Error creating user %s: %v", demo.Email, err)
			return nil, err
		}
		log.Printf("Created user: %s (uuid %s)", created.Email, created.UUID)
		users = append(users, *created)
	}

	return users, nil
}

var demoUsers = []model.User{
	{Name: "Ada Lovelace", Email: "ada@focusflow.dev"},
	{Name: "Alan Turing", Email: "alan@focusflow.dev"},
	{Name: "Grace Hopper", Email: "grace@focusflow.dev"},
	{Name: "Katherine Johnson", Email: "katherine@focusflow.dev"},
}
