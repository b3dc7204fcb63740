package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/db"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// Seeds the bootstrap admin account and, with SEED_DEMO=true, a small demo
// catalog. Self-service registration can never grant the admin role, so a
// fresh deployment runs this once. Re-running updates the admin in place.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Product{}, &model.Review{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	admin, err := seedAdmin(ctx, userRepo, cfg)
	if err != nil {
		log.Fatalf("seed admin user: %v", err)
	}
	log.Printf("admin user ready: %s (%s)", admin.Name, admin.Email)

	if cfg.SeedDemo {
		if err := seedDemoCatalog(ctx, userRepo, productRepo, reviewRepo); err != nil {
			log.Fatalf("seed demo catalog: %v", err)
		}
		log.Printf("demo catalog ready")
	}
}

// seedAdmin creates the bootstrap admin or updates the existing one in place,
// keeping its user id (and with it any reviews and tokens) intact.
func seedAdmin(ctx context.Context, userRepo repository.UserRepository, cfg *config.Config) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	existing, err := userRepo.FindByEmail(ctx, cfg.SeedAdminEmail)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		existing.Name = cfg.SeedAdminName
		existing.PasswordHash = string(hash)
		existing.Role = model.RoleAdmin
		if err := userRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	admin := &model.User{
		Name:         cfg.SeedAdminName,
		Email:        cfg.SeedAdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

type demoEntry struct {
	name     string
	brand    string
	category string
	prodType string
	price    string
	rating   int
	comment  string
}

var demoCatalog = []demoEntry{
	{"Trail Runner", "Peakline", "Sports", "Shoes", "89.99", 5, "Light, grippy and still going strong after 300km."},
	{"Cascade Press", "Brewform", "Kitchen", "Coffee Maker", "34.50", 4, "Makes a clean cup, the plunger takes some force."},
	{"Nimbus Pad", "Softcore", "Outdoors", "Sleeping Pad", "59.00", 3, "Comfortable but slowly loses air overnight."},
	{"Quartz Lamp", "Luminar", "Home", "Lighting", "24.95", 5, "Warm light and the dimmer actually dims to zero."},
}

// seedDemoCatalog loads a handful of products with one review each, written
// by a demo account. Entries already present by (name, brand) are skipped so
// the seeder stays re-runnable.
func seedDemoCatalog(
	ctx context.Context,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
) error {
	reviewer, err := userRepo.FindByEmail(ctx, "demo@reviewhub.local")
	if err == gorm.ErrRecordNotFound {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		reviewer = &model.User{
			Name:         "Demo Reviewer",
			Email:        "demo@reviewhub.local",
			PasswordHash: string(hash),
			Role:         model.RoleUser,
		}
		if err := userRepo.Create(ctx, reviewer); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	for _, entry := range demoCatalog {
		if _, err := productRepo.FindByNameBrand(ctx, entry.name, entry.brand); err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		price, err := decimal.NewFromString(entry.price)
		if err != nil {
			return err
		}

		product := &model.Product{
			Name:          entry.name,
			Brand:         entry.brand,
			Category:      entry.category,
			ProductType:   entry.prodType,
			Description:   "Product added by " + reviewer.Name,
			Image:         model.DefaultProductImage,
			Price:         price,
			UserID:        &reviewer.ID,
			AverageRating: float64(entry.rating),
			ReviewCount:   1,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}

		review := &model.Review{
			ProductID: product.ID,
			UserID:    reviewer.ID,
			Rating:    entry.rating,
			Comment:   entry.comment,
			Price:     price,
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			return err
		}
	}
	return nil
}
