// Package wishlist holds the set of saved items, toggled by presence
// and keyed on product id.
package wishlist

import "github.com/fakestore/storefront/internal/models"

type Wishlist []models.Item

// Toggle removes the item when one with the same product id is already
// present, otherwise appends it. Removal is index-stable: following
// entries shift left.
func Toggle(w Wishlist, item models.Item) Wishlist {
	for i, existing := range w {
		if existing.Product.ID == item.Product.ID {
			out := make(Wishlist, 0, len(w)-1)
			out = append(out, w[:i]...)
			return append(out, w[i+1:]...)
		}
	}
	out := make(Wishlist, len(w), len(w)+1)
	copy(out, w)
	return append(out, item)
}

func Contains(w Wishlist, productID int) bool {
	for _, item := range w {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}
