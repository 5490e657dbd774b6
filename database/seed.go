package database

import (
	_ "embed"
	"fmt"

	"loyalty-backend/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed providers.yaml
var providerSeedData []byte

type providerSeed struct {
	Name               string  `yaml:"name"`
	TradeName          string  `yaml:"trade_name"`
	Slug               string  `yaml:"slug"`
	Category           string  `yaml:"category"`
	Description        string  `yaml:"description"`
	WebLink            string  `yaml:"web_link"`
	PointsToValueRatio float64 `yaml:"points_to_value_ratio"`
	TransferFeePercent float64 `yaml:"transfer_fee_percent"`
	ExchangeRateBase   float64 `yaml:"exchange_rate_base"`
	ExchangeFeePercent float64 `yaml:"exchange_fee_percent"`
}

type providerSeedFile struct {
	Providers []providerSeed `yaml:"providers"`
}

// SeedProviders inserts the bundled provider catalog. Existing slugs
// are left untouched so the seed is safe to run on every start.
func SeedProviders(db *gorm.DB) error {
	var file providerSeedFile
	if err := yaml.Unmarshal(providerSeedData, &file); err != nil {
		return fmt.Errorf("failed to parse provider seed data: %w", err)
	}

	created := 0
	for _, seed := range file.Providers {
		var existing models.Provider
		if err := db.Where("slug = ?", seed.Slug).First(&existing).Error; err == nil {
			continue
		}

		provider := models.Provider{
			Name:               seed.Name,
			TradeName:          seed.TradeName,
			Slug:               seed.Slug,
			Category:           seed.Category,
			Description:        seed.Description,
			WebLink:            seed.WebLink,
			IsActive:           true,
			PointsToValueRatio: seed.PointsToValueRatio,
			TransferFeePercent: seed.TransferFeePercent,
			ExchangeRateBase:   seed.ExchangeRateBase,
			ExchangeFeePercent: seed.ExchangeFeePercent,
		}
		if err := db.Create(&provider).Error; err != nil {
			return fmt.Errorf("failed to seed provider %s: %w", seed.Slug, err)
		}
		created++
	}

	if created > 0 {
		logrus.WithField("count", created).Info("providers seeded")
	}
	return nil
}
