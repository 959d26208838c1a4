package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ShopBase           string
	ShopProductsPath   string
	ShopCategoriesPath string
	ShopCategoryPath   string

	AuthBase           string
	AuthSignupPath     string
	AuthSigninPath     string
	AuthVerifyPath     string
	AuthSignoutPath    string
	AuthDeleteUserPath string

	StoragePath    string
	KafkaAddress   string
	KafkaTopic     string
	LogLevel       string
	RequestTimeout time.Duration

	ProductsCacheTTL   time.Duration
	CategoriesCacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		ShopBase:           getenv("SHOP_BASE", "https://fakestoreapi.com"),
		ShopProductsPath:   getenv("SHOP_ALL_PRODUCTS", "/products"),
		ShopCategoriesPath: getenv("SHOP_ALL_CATEGORIES", "/products/categories"),
		ShopCategoryPath:   getenv("SHOP_CATEGORY", "/products/category"),

		AuthBase:           os.Getenv("AUTH_BASE"),
		AuthSignupPath:     getenv("AUTH_SIGN_UP", "/signup"),
		AuthSigninPath:     getenv("AUTH_SIGN_IN", "/signin"),
		AuthVerifyPath:     getenv("AUTH_SIGN_IN_VALIDATION", "/verify"),
		AuthSignoutPath:    getenv("AUTH_SIGN_OUT", "/signout"),
		AuthDeleteUserPath: getenv("AUTH_DELETE_USER", "/users"),

		StoragePath:  getenv("STORAGE_PATH", "storefront.db"),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "storefront_events"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	var err error
	if config.RequestTimeout, err = getduration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.ProductsCacheTTL, err = getduration("PRODUCTS_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if config.CategoriesCacheTTL, err = getduration("CATEGORIES_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	return config, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
