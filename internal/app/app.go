// Package app is the top-level state holder: it owns the cart, the
// wishlist and the session manager, and every mutation the UI layer
// can trigger goes through it. Views receive copies; mutations happen
// only here.
package app

import (
	"context"
	"log/slog"

	"github.com/fakestore/storefront/internal/authform"
	"github.com/fakestore/storefront/internal/cart"
	"github.com/fakestore/storefront/internal/catalog"
	"github.com/fakestore/storefront/internal/checkout"
	"github.com/fakestore/storefront/internal/events"
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/internal/session"
	"github.com/fakestore/storefront/internal/wishlist"
)

type App struct {
	cart     cart.Cart
	wishlist wishlist.Wishlist

	sessions *session.Manager
	catalog  *catalog.Service
	forms    *authform.Service
	events   *events.Producer
	log      *slog.Logger
}

func New(sessions *session.Manager, cat *catalog.Service, forms *authform.Service, producer *events.Producer, log *slog.Logger) *App {
	return &App{
		sessions: sessions,
		catalog:  cat,
		forms:    forms,
		events:   producer,
		log:      log,
	}
}

// Boot runs the one-shot session revalidation. The returned error is
// the user-visible message for a discarded session; the app is usable
// either way.
func (a *App) Boot(ctx context.Context) error {
	return a.sessions.Validate(ctx)
}

func (a *App) Authenticated() bool { return a.sessions.Authenticated() }

func (a *App) Session() *models.Session { return a.sessions.Session() }

func (a *App) Cart() cart.Cart {
	out := make(cart.Cart, len(a.cart))
	copy(out, a.cart)
	return out
}

func (a *App) Wishlist() wishlist.Wishlist {
	out := make(wishlist.Wishlist, len(a.wishlist))
	copy(out, a.wishlist)
	return out
}

// Products returns the full listing projected onto current cart
// quantities, the way the home view consumes it.
func (a *App) Products(ctx context.Context) ([]models.Item, error) {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	return cart.MapToItems(products, a.cart), nil
}

func (a *App) ProductsByCategory(ctx context.Context, category string) ([]models.Item, error) {
	products, err := a.catalog.Category(ctx, category)
	if err != nil {
		return nil, err
	}
	return cart.MapToItems(products, a.cart), nil
}

func (a *App) Categories(ctx context.Context) ([]string, error) {
	return a.catalog.Categories(ctx)
}

func (a *App) UpdateCart(ctx context.Context, product models.Product, quantity int) cart.Cart {
	a.cart = cart.SetQuantity(a.cart, product, quantity)
	a.events.Publish(ctx, "cart_updated", map[string]any{
		"productID": product.ID,
		"quantity":  quantity,
		"count":     cart.Count(a.cart),
	})
	return a.Cart()
}

func (a *App) ToggleWishlist(ctx context.Context, item models.Item) wishlist.Wishlist {
	a.wishlist = wishlist.Toggle(a.wishlist, item)
	a.events.Publish(ctx, "wishlist_toggled", map[string]any{
		"productID": item.Product.ID,
		"size":      len(a.wishlist),
	})
	return a.Wishlist()
}

func (a *App) InWishlist(productID int) bool {
	return wishlist.Contains(a.wishlist, productID)
}

func (a *App) Checkout(ctx context.Context) checkout.Result {
	result := checkout.Do(a.sessions.Session(), a.cart)
	if result.Emptied {
		a.cart = result.Cart
		a.events.Publish(ctx, "checkout", nil)
	}
	return result
}

// SubmitAuthForm validates and dispatches the form; successful auth
// data is installed as the current session. A persistence failure is
// logged as a warning and does not undo the authentication.
func (a *App) SubmitAuthForm(ctx context.Context, intent string, fields map[string]string) authform.Result {
	result := a.forms.Action(ctx, intent, fields)
	if result.AuthData != nil {
		if err := a.sessions.Authenticate(result.AuthData.Session()); err != nil {
			a.log.Warn("session not persisted, staying signed in for this run", "error", err)
		}
		a.events.Publish(ctx, "signed_in", map[string]any{"username": result.AuthData.Username})
	}
	return result
}

// SignOut clears the session and all derived state. Idempotent.
func (a *App) SignOut(ctx context.Context) {
	a.sessions.SignOut()
	a.cart = nil
	a.wishlist = nil
	a.events.Publish(ctx, "signed_out", nil)
}

// DeleteAccount removes the remote account; local state is cleared
// only on success, so a failed attempt can be retried.
func (a *App) DeleteAccount(ctx context.Context) error {
	if err := a.sessions.DeleteAccount(ctx); err != nil {
		return err
	}
	a.cart = nil
	a.wishlist = nil
	a.events.Publish(ctx, "account_deleted", nil)
	return nil
}

// Wait drains background sign-out notifications; call it on shutdown.
func (a *App) Wait() {
	a.sessions.Wait()
}
