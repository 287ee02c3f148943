package entities

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password does not meet the strength policy")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

const (
	ProductAvailable    = "available"
	ProductOutOfStock   = "out_of_stock"
	ProductDiscontinued = "discontinued"
	ProductComingSoon   = "coming_soon"
)

// User is the registered identity owned by the session store. The password
// never leaves the persisted users collection; User carries everything else.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastAccessAt *time.Time `json:"lastAccessAt,omitempty"`
	Active       bool       `json:"active"`
}

// Product is a read-only catalog record. Prices are whole currency units.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Category         string    `json:"category"`
	Brand            string    `json:"brand"`
	Price            int64     `json:"price"`
	OriginalPrice    int64     `json:"originalPrice,omitempty"`
	Discount         int       `json:"discount,omitempty"`
	Image            string    `json:"image"`
	Stock            int       `json:"stock"`
	Status           string    `json:"status"`
	Rating           float64   `json:"rating"`
	ReviewCount      int       `json:"reviewCount"`
	CreatedAt        time.Time `json:"createdAt"`
	Featured         bool      `json:"featured"`
	Tags             []string  `json:"tags,omitempty"`
}

// ProductFilter narrows catalog queries. Zero values mean "no constraint";
// the pointer fields distinguish unset from false/zero.
type ProductFilter struct {
	Category string
	Brand    string
	Search   string
	Featured *bool
	InStock  *bool
	MinPrice *int64
	MaxPrice *int64
}

// CartItem is a single cart line. PriceAtTime is the price snapshot taken
// when the line was created and is never touched afterwards.
type CartItem struct {
	ID          string    `json:"id"`
	Product     Product   `json:"product"`
	Quantity    int       `json:"quantity"`
	Variant     string    `json:"variant,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
	PriceAtTime int64     `json:"priceAtTime"`
}

// Cart holds one authenticated user's selection. TotalItems, Subtotal and
// Total are derived and recomputed after every mutation.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	TotalItems int        `json:"totalItems"`
	Subtotal   int64      `json:"subtotal"`
	Total      int64      `json:"total"`
}

type CartSummary struct {
	TotalItems int   `json:"totalItems"`
	Subtotal   int64 `json:"subtotal"`
	Total      int64 `json:"total"`
	IsEmpty    bool  `json:"isEmpty"`
}

type CatalogProvider interface {
	Products(ctx context.Context, filter ProductFilter) ([]Product, error)
	ProductByID(ctx context.Context, id string) (Product, error)
	Featured(ctx context.Context) ([]Product, error)
}
