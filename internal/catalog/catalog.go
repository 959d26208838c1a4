// Package catalog fetches product listings and categories from the
// remote shop API, short-circuiting through the local cache when a
// fresh entry exists.
package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/fakestore/storefront/internal/cache"
	"github.com/fakestore/storefront/internal/gateway"
	"github.com/fakestore/storefront/internal/models"
)

type Config struct {
	BaseURL        string
	ProductsPath   string
	CategoriesPath string
	CategoryPath   string

	ProductsTTL   time.Duration
	CategoriesTTL time.Duration
}

type Service struct {
	cfg   Config
	gw    *gateway.Client
	cache *cache.Cache
	log   *slog.Logger
}

func New(cfg Config, gw *gateway.Client, c *cache.Cache, log *slog.Logger) *Service {
	return &Service{cfg: cfg, gw: gw, cache: c, log: log}
}

var nonWord = regexp.MustCompile(`[^\w]`)

func productsCacheKey(category string) string {
	if category == "" {
		return "all_categories_products"
	}
	return nonWord.ReplaceAllString(category, "_") + "_products"
}

const categoriesCacheKey = "all_categories"

func (s *Service) fetchProducts(ctx context.Context, key, url string) ([]models.Product, error) {
	var products []models.Product
	if s.cache.Get(key, s.cfg.ProductsTTL, &products) {
		return products, nil
	}
	if err := s.gw.JSON(ctx, http.MethodGet, url, nil, nil, &products); err != nil {
		return nil, err
	}
	if err := s.cache.Put(key, products); err != nil {
		s.log.Warn("could not cache products", "key", key, "error", err)
	}
	return products, nil
}

func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.fetchProducts(ctx, productsCacheKey(""), s.cfg.BaseURL+s.cfg.ProductsPath)
}

func (s *Service) Category(ctx context.Context, category string) ([]models.Product, error) {
	u := s.cfg.BaseURL + s.cfg.CategoryPath + "/" + url.PathEscape(category)
	return s.fetchProducts(ctx, productsCacheKey(category), u)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if s.cache.Get(categoriesCacheKey, s.cfg.CategoriesTTL, &categories) {
		return categories, nil
	}
	if err := s.gw.JSON(ctx, http.MethodGet, s.cfg.BaseURL+s.cfg.CategoriesPath, nil, nil, &categories); err != nil {
		return nil, err
	}
	if err := s.cache.Put(categoriesCacheKey, categories); err != nil {
		s.log.Warn("could not cache categories", "error", err)
	}
	return categories, nil
}
