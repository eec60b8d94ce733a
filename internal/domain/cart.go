package domain

import (
	"math"
	"sync"
)

// TaxRate is charged on the cart subtotal. Shipping is free.
const TaxRate = 0.10

type CartItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type CartSummary struct {
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"itemCount"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
}

// Cart is owned by one session. Items keep insertion order.
type Cart struct {
	mu          sync.Mutex
	items       []CartItem
	maxQuantity int
}

func NewCart(maxQuantity int) *Cart {
	return &Cart{maxQuantity: maxQuantity}
}

// Add merges qty into an existing line or appends a new one.
func (c *Cart) Add(p Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == p.ID {
			return c.setQuantity(i, c.items[i].Quantity+qty)
		}
	}
	if c.maxQuantity > 0 && qty > c.maxQuantity {
		return ErrInvalidQuantity
	}
	c.items = append(c.items, CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		Quantity:  qty,
	})
	return nil
}

// UpdateQuantity sets a line's quantity; qty <= 0 removes the line.
func (c *Cart) UpdateQuantity(productID, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
		return c.setQuantity(i, qty)
	}
	return ErrCartItemNotFound
}

func (c *Cart) Remove(productID int) error {
	return c.UpdateQuantity(productID, 0)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Summary computes line totals, subtotal, tax and grand total rounded to cents.
func (c *Cart) Summary() CartSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := CartSummary{Items: make([]CartItem, 0, len(c.items))}
	for _, it := range c.items {
		it.LineTotal = roundCents(it.Price * float64(it.Quantity))
		s.Items = append(s.Items, it)
		s.ItemCount += it.Quantity
		s.Subtotal += it.Price * float64(it.Quantity)
	}
	s.Tax = roundCents(s.Subtotal * TaxRate)
	s.Total = roundCents(s.Subtotal * (1 + TaxRate))
	s.Subtotal = roundCents(s.Subtotal)
	return s
}

func (c *Cart) setQuantity(i, qty int) error {
	if c.maxQuantity > 0 && qty > c.maxQuantity {
		return ErrInvalidQuantity
	}
	c.items[i].Quantity = qty
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
