package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	defaultHRPassword       = "hr123"
	defaultEmployeePassword = "pass123"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the sample HR and employee accounts",
	Long:  `Create the sample HR and employee accounts. Accounts that already exist are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.InitWithOptions(cfg.Logging.Level, cfg.Logging.Format)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		created, err := seedAccounts(cmd.Context(), gormDB, cfg)
		if err != nil {
			log.Fatalf("failed to seed accounts: %v", err)
		}
		logger.LoggerWrapper().Info("seeding completed", "created", created)
	},
}

func seedAccounts(ctx context.Context, db *gorm.DB, cfg *internal.Config) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	svc := user.NewService(userPostgres.NewUserRepository(db), cfg.Security.BCryptCost, logger.LoggerWrapper())
	return svc.Seed(ctx, sampleAccounts(cfg.Bootstrap.HRPassword))
}

func sampleAccounts(hrPassword string) []user.CreateEmployeeDTO {
	if hrPassword == "" {
		hrPassword = defaultHRPassword
	}

	accounts := []user.CreateEmployeeDTO{
		{Name: "HR Admin", Username: "hr001", EmployeeCode: "HR001", Password: hrPassword, Role: "hr", Department: strPtr("Human Resources")},
	}

	employees := []struct{ name, code string }{
		{"Tejas Jagdale", "EMP001"},
		{"Aniket Vadar", "EMP002"},
		{"Priya Sharma", "EMP003"},
		{"Rahul Patel", "EMP004"},
		{"Sneha Desai", "EMP005"},
	}
	for _, e := range employees {
		accounts = append(accounts, user.CreateEmployeeDTO{
			Name:         e.name,
			Username:     strings.ToLower(e.code),
			EmployeeCode: e.code,
			Password:     defaultEmployeePassword,
			Role:         "employee",
		})
	}
	return accounts
}

func strPtr(s string) *string {
	return &s
}
