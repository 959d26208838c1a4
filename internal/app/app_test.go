package app

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

	"github.com/fakestore/storefront/internal/authform"
	"github.com/fakestore/storefront/internal/cache"
	"github.com/fakestore/storefront/internal/cart"
	"github.com/fakestore/storefront/internal/catalog"
	"github.com/fakestore/storefront/internal/gateway"
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/internal/session"
	"github.com/fakestore/storefront/internal/storage"
	"github.com/fakestore/storefront/internal/validation"
	"github.com/fakestore/storefront/pkg/authclient"
)

var testProducts = []models.Product{
	{ID: 1, Title: "backpack", Price: 109.95, Category: "men's clothing"},
	{ID: 2, Title: "t-shirt", Price: 22.30, Category: "men's clothing"},
}

type backend struct {
	validTokens map[string]bool
}

func (b *backend) routes(e *echo.Echo) {
	e.GET("/products", func(c echo.Context) error {
		return c.JSON(http.StatusOK, testProducts)
	})
	e.GET("/products/categories", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{"men's clothing"})
	})
	e.POST("/signin", func(c echo.Context) error {
		var body map[string]string
		if err := c.Bind(&body); err != nil {
			return err
		}
		if body["password"] != "Ss@12312" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials!"})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"token":    "token-1",
			"objectId": "u1",
			"username": body["username"],
			"fullname": "Clark Kent",
		})
	})
	e.GET("/verify/:token", func(c echo.Context) error {
		return c.JSON(http.StatusOK, b.validTokens[c.Param("token")])
	})
	e.GET("/signout", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.DELETE("/users/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

type testEnv struct {
	kv      *storage.Store
	backend *backend
	auth    *authclient.Client
	catalog *catalog.Service
	log     *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		backend: &backend{validTokens: map[string]bool{}},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	kv, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	env.kv = kv

	e := echo.New()
	env.backend.routes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	gw := gateway.New(time.Second)
	env.auth = authclient.New(authclient.Config{
		BaseURL:        srv.URL,
		SignupPath:     "/signup",
		SigninPath:     "/signin",
		VerifyPath:     "/verify",
		SignoutPath:    "/signout",
		DeleteUserPath: "/users",
	}, gw)
	env.catalog = catalog.New(catalog.Config{
		BaseURL:        srv.URL,
		ProductsPath:   "/products",
		CategoriesPath: "/products/categories",
		CategoryPath:   "/products/category",
		ProductsTTL:    10 * time.Minute,
		CategoriesTTL:  24 * time.Hour,
	}, gw, cache.New(kv, env.log), env.log)

	return env
}

// newApp simulates an application load over the current storage state.
func (env *testEnv) newApp() *App {
	sessions := session.NewManager(session.NewStore(env.kv), env.auth, env.log)
	forms := authform.New(env.auth)
	return New(sessions, env.catalog, forms, nil, env.log)
}

func newTestApp(t *testing.T) (*testEnv, *App) {
	t.Helper()
	env := newTestEnv(t)
	return env, env.newApp()
}

func signin(t *testing.T, a *App) {
	t.Helper()
	result := a.SubmitAuthForm(context.Background(), authform.IntentSignin, map[string]string{
		validation.FieldUsername: "clark",
		validation.FieldPassword: "Ss@12312",
	})
	require.NotNil(t, result.AuthData)
	require.True(t, a.Authenticated())
}

func TestBootWithoutStoredSession(t *testing.T) {
	_, a := newTestApp(t)
	require.NoError(t, a.Boot(context.Background()))
	require.False(t, a.Authenticated())
}

func TestBootDiscardsStaleSession(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, session.NewStore(env.kv).Save(models.Session{Token: "stale", User: models.User{ID: "u1"}}))

	// A new app over the same storage simulates the next load.
	a := env.newApp()
	require.Error(t, a.Boot(context.Background()))
	require.False(t, a.Authenticated())

	stored, err := session.NewStore(env.kv).Load()
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestBootKeepsValidSession(t *testing.T) {
	env := newTestEnv(t)
	env.backend.validTokens["token-1"] = true
	require.NoError(t, session.NewStore(env.kv).Save(models.Session{
		Token: "token-1",
		User:  models.User{ID: "u1", Username: "clark"},
	}))

	a := env.newApp()
	require.NoError(t, a.Boot(context.Background()))
	require.True(t, a.Authenticated())
	require.Equal(t, "clark", a.Session().User.Username)
}

func TestShoppingScenario(t *testing.T) {
	_, a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Boot(ctx))

	items, err := a.Products(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	a.UpdateCart(ctx, items[0].Product, 1)
	a.UpdateCart(ctx, items[1].Product, 1)
	c := a.UpdateCart(ctx, items[0].Product, 2)

	require.Len(t, c, 2)
	require.Equal(t, 1, c[0].Product.ID)
	require.Equal(t, 2, c[0].Quantity)
	require.Equal(t, 1, c[1].Quantity)
	require.InDelta(t, 109.95*2+22.30, cart.TotalCost(c), 1e-9)

	// Listings reflect cart quantities after the update.
	items, err = a.Products(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, items[0].Quantity)

	// Checkout is gated on a session.
	result := a.Checkout(ctx)
	require.True(t, result.RedirectToSignIn)
	require.Len(t, a.Cart(), 2, "cart unchanged without a session")

	signin(t, a)
	result = a.Checkout(ctx)
	require.True(t, result.Emptied)
	require.Empty(t, a.Cart())
}

func TestSignOutClearsDerivedState(t *testing.T) {
	_, a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Boot(ctx))
	signin(t, a)

	a.UpdateCart(ctx, testProducts[0], 3)
	a.ToggleWishlist(ctx, models.Item{Product: testProducts[1], Quantity: 1})
	require.True(t, a.InWishlist(2))

	a.SignOut(ctx)
	require.False(t, a.Authenticated())
	require.Empty(t, a.Cart())
	require.Empty(t, a.Wishlist())

	// Safe to invoke twice in a row.
	a.SignOut(ctx)
	require.False(t, a.Authenticated())
	a.Wait()
}

func TestDeleteAccountClearsDerivedState(t *testing.T) {
	_, a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.Boot(ctx))
	signin(t, a)

	a.UpdateCart(ctx, testProducts[0], 1)
	require.NoError(t, a.DeleteAccount(ctx))
	require.False(t, a.Authenticated())
	require.Empty(t, a.Cart())
}

func TestWishlistToggle(t *testing.T) {
	_, a := newTestApp(t)
	ctx := context.Background()

	item := models.Item{Product: testProducts[0], Quantity: 1}
	w := a.ToggleWishlist(ctx, item)
	require.Len(t, w, 1)
	require.True(t, a.InWishlist(1))

	w = a.ToggleWishlist(ctx, item)
	require.Empty(t, w)
}
