// Package db はGORMによるMySQL接続の確立とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	apilogentity "marketdash/internal/feature/apilog/domain/entity"
	authentity "marketdash/internal/feature/auth/domain/entity"
	favoriteentity "marketdash/internal/feature/favorites/domain/entity"
	priceadapters "marketdash/internal/feature/prices/adapters"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// Config はデータベース接続の設定を保持します。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceName はCloud SQL接続名です。設定時はUnixソケット接続が優先されます。
	InstanceName string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN は設定からMySQLのDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替え可能にするための型です。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続に成功するまで3秒間隔でリトライします。
// timeoutを超えた場合は最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB は環境変数の設定でMySQLに接続し、RUN_MIGRATIONS=trueの場合は
// 全テーブルのマイグレーションを実行します。
func OpenDB() (*gorm.DB, error) {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		return nil, err
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Symbol, Price など）
		if err := db.AutoMigrate(
			&authentity.User{},
			&symbolentity.Symbol{},
			&priceadapters.PriceModel{},
			&favoriteentity.Favorite{},
			&apilogentity.Log{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return db, nil
}
