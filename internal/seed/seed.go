package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"bloodgroup/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	Donors        int
	// Reset deletes predictions, contact messages and users first.
	Reset bool
	// Rand picks donor blood groups and cities. Nil means a time-seeded source.
	Rand *rand.Rand
}

type Summary struct {
	AdminCreated bool
	Donors       int
}

var cities = []string{"Lagos", "Abuja", "Kano", "Ibadan", "Port Harcourt", "Springfield"}

// Run creates an admin account and a batch of demo donors. Existing accounts
// with the same email are left untouched.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil, fmt.Errorf("admin email and password are required")
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	summary := &Summary{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Reset {
			slog.Info("cleaning old data")
			for _, table := range []string{"predictions", "contact_messages", "users"} {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return err
				}
			}
		}

		adminHash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := domain.User{
			Name:         "Administrator",
			Email:        opts.AdminEmail,
			PasswordHash: string(adminHash),
			Role:         domain.RoleAdmin,
			CreatedAt:    time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&admin)
		if res.Error != nil {
			return res.Error
		}
		summary.AdminCreated = res.RowsAffected == 1

		donorHash, err := bcrypt.GenerateFromPassword([]byte("donor123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		donors := make([]domain.User, 0, opts.Donors)
		for i := 0; i < opts.Donors; i++ {
			donors = append(donors, domain.User{
				Name:         fmt.Sprintf("Donor %d", i+1),
				Email:        fmt.Sprintf("donor%d@example.com", i+1),
				PasswordHash: string(donorHash),
				Phone:        fmt.Sprintf("+234 800 000 %04d", i+1),
				Location:     cities[rng.IntN(len(cities))],
				BloodGroup:   string(domain.BloodGroups[rng.IntN(len(domain.BloodGroups))]),
				Role:         domain.RoleUser,
				CreatedAt:    time.Now().Add(-time.Duration(opts.Donors-i) * time.Hour),
			})
		}
		if len(donors) == 0 {
			return nil
		}
		res = tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&donors)
		if res.Error != nil {
			return res.Error
		}
		summary.Donors = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("seed complete", "admin_created", summary.AdminCreated, "donors", summary.Donors)
	return summary, nil
}
