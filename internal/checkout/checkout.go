// Package checkout gates the purchase step on an authenticated
// session.
package checkout

import (
	"github.com/fakestore/storefront/internal/cart"
	"github.com/fakestore/storefront/internal/models"
)

type Result struct {
	Cart             cart.Cart
	Emptied          bool
	RedirectToSignIn bool
}

// Do empties the cart when a session is present; otherwise it leaves
// the cart untouched and signals a redirect to sign-in.
func Do(session *models.Session, c cart.Cart) Result {
	if session == nil {
		return Result{Cart: c, RedirectToSignIn: true}
	}
	return Result{Cart: cart.Cart{}, Emptied: true}
}
