// Package cart is the pure ledger of (product, quantity) entries.
// Operations never mutate their input; the caller owns persistence
// and display of the returned cart.
package cart

import (
	"strconv"

	"github.com/fakestore/storefront/internal/models"
)

// Cart holds at most one entry per product id, in insertion order.
type Cart []models.Item

func indexOf(c Cart, productID int) int {
	for i, item := range c {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// SetQuantity returns a cart with the product's quantity set. A
// positive quantity updates the entry in place or appends a new one;
// zero or less removes it. Removing an absent product returns the
// input cart unchanged.
func SetQuantity(c Cart, product models.Product, quantity int) Cart {
	i := indexOf(c, product.ID)
	if quantity <= 0 {
		if i < 0 {
			return c
		}
		out := make(Cart, 0, len(c)-1)
		out = append(out, c[:i]...)
		return append(out, c[i+1:]...)
	}
	if i >= 0 {
		out := make(Cart, len(c))
		copy(out, c)
		out[i].Quantity = quantity
		return out
	}
	out := make(Cart, len(c), len(c)+1)
	copy(out, c)
	return append(out, models.Item{Product: product, Quantity: quantity})
}

// Count is the total number of items, summed over quantities.
func Count(c Cart) int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

func TotalCost(c Cart) float64 {
	total := 0.0
	for _, item := range c {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// FormatCost renders a cost with exactly two decimal digits.
func FormatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', 2, 64)
}

// MapToItems projects fetched products onto items carrying the current
// cart quantity, zero for products not in the cart.
func MapToItems(products []models.Product, c Cart) []models.Item {
	items := make([]models.Item, len(products))
	for i, p := range products {
		quantity := 0
		if j := indexOf(c, p.ID); j >= 0 {
			quantity = c[j].Quantity
		}
		items[i] = models.Item{Product: p, Quantity: quantity}
	}
	return items
}
