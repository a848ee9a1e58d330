package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fitplanner-backend/config"
	"fitplanner-backend/repository"
	"fitplanner-backend/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	ctx := context.Background()
	users, closeUsers, err := repository.NewUserRepository(ctx, repository.UserStoreConfig{
		Type:        repository.UserStoreType(cfg.Users.Type),
		FilePath:    cfg.Users.FilePath,
		SQLitePath:  cfg.Users.SQLitePath,
		DatabaseURL: cfg.Users.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to open %s user store: %v", cfg.Users.Type, err)
	}
	defer closeUsers()

	credentials := service.NewCredentialService(service.CredentialWithUserRepository(users))

	// Create a test user
	email := "test@example.com"
	password := "testpassword123"

	user, err := credentials.CreateUser(ctx, email, password)
	if errors.Is(err, service.ErrEmailInUse) {
		existing, findErr := credentials.FindUserByEmail(ctx, email)
		if findErr != nil {
			log.Fatalf("User with email %s exists but could not be loaded: %v", email, findErr)
		}
		log.Printf("User with email %s already exists (ID: %s)", email, existing.ID)
		return
	}
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("✅ Test user created successfully!\n")
	fmt.Printf("   Store: %s\n", cfg.Users.Type)
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   Password: %s\n", password)
}
