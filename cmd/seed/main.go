// Command seed creates an admin account. The admin API has no sign-up
// endpoint, so this is the only way to get the first login.
//
//	go run ./cmd/seed -username admin -password 's3cret!' -role superadmin
//
// ADMIN_USERNAME and ADMIN_PASSWORD are used when the flags are omitted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/config"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/database"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/service"
)

func main() {
	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	role := flag.String("role", model.RoleAdmin, "role: admin or superadmin")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	if err := run(*username, *password, *role, *migrate); err != nil {
		slog.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(username, password, role string, migrate bool) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	if len(password) < service.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", service.MinPasswordLength)
	}
	if role != model.RoleAdmin && role != model.RoleSuperAdmin {
		return fmt.Errorf("unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Open(database.Options{
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := repository.NewAdminRepo(db).Create(ctx, username, password, role, cfg.BcryptCost)
	if errors.Is(err, repository.ErrUsernameExists) {
		return fmt.Errorf("admin %q already exists", username)
	}
	if err != nil {
		return err
	}
	slog.Info("admin created", "id", id, "username", username, "role", role)
	return nil
}
