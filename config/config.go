package config

import (
	"fmt"

	"pns-delivery-api/models"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port      string
	GinMode   string
	JWTSecret string

	// WhatsApp number the wallet top-up deep link points at
	SupportPhone string

	// SQLite DSN. The default keeps the whole store in memory, shared
	// across the connection pool; everything resets on process restart.
	DBDSN string
}

// Load reads configuration from the environment with sensible defaults
func Load() *Config {
	viper.SetDefault("port", "8080")
	viper.SetDefault("gin_mode", "debug")
	viper.SetDefault("jwt_secret", "pns_delivery_super_secret_2024")
	viper.SetDefault("support_phone", "918434805818")
	viper.SetDefault("db_dsn", "file:pnsdelivery?mode=memory&cache=shared")
	viper.AutomaticEnv()

	return &Config{
		Port:         viper.GetString("port"),
		GinMode:      viper.GetString("gin_mode"),
		JWTSecret:    viper.GetString("jwt_secret"),
		SupportPhone: viper.GetString("support_phone"),
		DBDSN:        viper.GetString("db_dsn"),
	}
}

// InitDB opens the volatile store and migrates all models
func InitDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("config.InitDB: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatMessage{},
		&models.OrderStatusHistory{},
		&models.WalletTopUp{},
		&models.PlatformModes{},
	)
	if err != nil {
		return nil, fmt.Errorf("config.InitDB migrate: %w", err)
	}

	log.Info("database ready", zap.String("dsn", cfg.DBDSN))
	return db, nil
}
