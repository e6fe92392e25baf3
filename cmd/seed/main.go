// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/database"
	"github.com/slayk/storefront-admin/internal/services"
)

func main() {
	catalog := flag.Bool("catalog", true, "insert the sample categories, products and orders")
	admin := flag.Bool("admin", true, "create or reset the admin account from ADMIN_EMAIL and ADMIN_PASSWORD")
	reset := flag.Bool("reset", false, "delete existing catalog and order rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *catalog {
		result, err := database.SeedCatalog(ctx, db, *reset)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to seed catalog")
		}

		// Fixture counts are not trusted; derive them from the products.
		if _, err := services.NewCategoryService(db).RecountCategories(ctx); err != nil {
			logrus.WithError(err).Fatal("Failed to recount categories")
		}

		logrus.WithFields(logrus.Fields{
			"categories": result.Categories,
			"products":   result.Products,
			"orders":     result.Orders,
			"reset":      *reset,
		}).Info("Catalog seeded")
	}

	if *admin {
		if cfg.Auth.AdminPassword == "" {
			logrus.Fatal("ADMIN_PASSWORD must be set to seed the admin account")
		}

		created, err := database.SeedAdmin(ctx, db, cfg.Auth.AdminEmail, cfg.Auth.AdminName, cfg.Auth.AdminPassword)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to seed admin")
		}

		entry := logrus.WithField("email", cfg.Auth.AdminEmail)
		if created {
			entry.Info("Admin account created")
		} else {
			entry.Info("Admin account password reset")
		}
	}
}
