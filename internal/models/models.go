package models

// Rating is the aggregate customer rating attached to a catalog product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog entry. Products are sourced from the remote shop
// API and never constructed locally.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Item pairs a product with a quantity. Both the cart and the wishlist
// hold items; a quantity of zero is never stored in the cart.
type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type User struct {
	ID       string `json:"objectId"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Session is the authenticated identity plus its opaque credential,
// persisted between runs and revalidated once at startup.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthPayload is the wire shape the remote authority returns from a
// successful sign-in or sign-up exchange.
type AuthPayload struct {
	Token    string `json:"token"`
	ObjectID string `json:"objectId"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (p AuthPayload) Session() Session {
	return Session{
		Token: p.Token,
		User: User{
			ID:       p.ObjectID,
			Username: p.Username,
			Fullname: p.Fullname,
			Email:    p.Email,
			Phone:    p.Phone,
		},
	}
}
