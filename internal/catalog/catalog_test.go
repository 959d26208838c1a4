package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/fakestore/storefront/internal/cache"
	"github.com/fakestore/storefront/internal/gateway"
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/internal/storage"
)

type shopFake struct {
	e    *echo.Echo
	hits map[string]int
}

func newShopFake(t *testing.T) (*shopFake, string) {
	t.Helper()
	fake := &shopFake{e: echo.New(), hits: map[string]int{}}
	fake.e.GET("/products", func(c echo.Context) error {
		fake.hits["/products"]++
		return c.JSON(http.StatusOK, []models.Product{{ID: 1, Title: "shirt", Price: 9.99}})
	})
	fake.e.GET("/products/categories", func(c echo.Context) error {
		fake.hits["/products/categories"]++
		return c.JSON(http.StatusOK, []string{"electronics", "men's clothing"})
	})
	fake.e.GET("/products/category/:name", func(c echo.Context) error {
		fake.hits["/products/category/"+c.Param("name")]++
		return c.JSON(http.StatusOK, []models.Product{{ID: 2, Title: "tv", Category: c.Param("name")}})
	})
	srv := httptest.NewServer(fake.e)
	t.Cleanup(srv.Close)
	return fake, srv.URL
}

func newTestService(t *testing.T, base string) *Service {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := Config{
		BaseURL:        base,
		ProductsPath:   "/products",
		CategoriesPath: "/products/categories",
		CategoryPath:   "/products/category",
		ProductsTTL:    10 * time.Minute,
		CategoriesTTL:  24 * time.Hour,
	}
	return New(cfg, gateway.New(time.Second), cache.New(store, log), log)
}

func TestProductsCacheShortCircuits(t *testing.T) {
	fake, base := newShopFake(t)
	svc := newTestService(t, base)

	first, err := svc.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Products(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, fake.hits["/products"], "cache hit must not touch the network")
}

func TestCategoryListingsAreCachedSeparately(t *testing.T) {
	fake, base := newShopFake(t)
	svc := newTestService(t, base)

	products, err := svc.Category(context.Background(), "electronics")
	require.NoError(t, err)
	require.Equal(t, "electronics", products[0].Category)

	_, err = svc.Category(context.Background(), "electronics")
	require.NoError(t, err)
	require.Equal(t, 1, fake.hits["/products/category/electronics"])

	_, err = svc.Products(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, fake.hits["/products"], "full listing has its own cache key")
}

func TestCategoriesCached(t *testing.T) {
	fake, base := newShopFake(t)
	svc := newTestService(t, base)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"electronics", "men's clothing"}, categories)

	_, err = svc.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, fake.hits["/products/categories"])
}

func TestProductsCacheKeySanitizesCategory(t *testing.T) {
	require.Equal(t, "all_categories_products", productsCacheKey(""))
	require.Equal(t, "men_s_clothing_products", productsCacheKey("men's clothing"))
}

func TestProductsRemoteError(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:1")
	_, err := svc.Products(context.Background())
	require.Error(t, err)
}
