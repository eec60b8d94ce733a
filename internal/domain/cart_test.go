package domain

import (
	"errors"
	"testing"
)

func TestCart(t *testing.T) {
	phone := Product{ID: 1, Name: "iPhone 9", Price: 549}
	cover := Product{ID: 2, Name: "Phone Case", Price: 12.5}

	t.Run("add merges quantities", func(t *testing.T) {
		c := NewCart(10)
		if err := c.Add(phone, 1); err != nil {
			t.Fatal(err)
		}
		if err := c.Add(phone, 2); err != nil {
			t.Fatal(err)
		}
		s := c.Summary()
		if len(s.Items) != 1 || s.Items[0].Quantity != 3 {
			t.Fatalf("items = %+v", s.Items)
		}
	})

	t.Run("totals", func(t *testing.T) {
		c := NewCart(0)
		_ = c.Add(phone, 2)
		_ = c.Add(cover, 1)
		s := c.Summary()
		if s.Subtotal != 1110.5 {
			t.Fatalf("subtotal = %v", s.Subtotal)
		}
		if s.Tax != 111.05 {
			t.Fatalf("tax = %v", s.Tax)
		}
		if s.Total != 1221.55 {
			t.Fatalf("total = %v", s.Total)
		}
		if s.Shipping != 0 || s.ItemCount != 3 {
			t.Fatalf("shipping=%v count=%d", s.Shipping, s.ItemCount)
		}
		if s.Items[0].LineTotal != 1098 {
			t.Fatalf("line total = %v", s.Items[0].LineTotal)
		}
	})

	t.Run("update to zero removes", func(t *testing.T) {
		c := NewCart(0)
		_ = c.Add(phone, 1)
		if err := c.UpdateQuantity(phone.ID, 0); err != nil {
			t.Fatal(err)
		}
		if n := len(c.Summary().Items); n != 0 {
			t.Fatalf("items = %d", n)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		c := NewCart(0)
		if err := c.Remove(42); !errors.Is(err, ErrCartItemNotFound) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("quantity cap", func(t *testing.T) {
		c := NewCart(5)
		_ = c.Add(phone, 4)
		if err := c.Add(phone, 2); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("got %v", err)
		}
		if err := c.Add(cover, 0); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("clear", func(t *testing.T) {
		c := NewCart(0)
		_ = c.Add(phone, 1)
		c.Clear()
		if s := c.Summary(); len(s.Items) != 0 || s.Total != 0 {
			t.Fatalf("summary = %+v", s)
		}
	})
}

func TestProductNormalize(t *testing.T) {
	p := Product{Price: 10, Stock: 0, Images: []string{"a.png"}}
	p.Normalize()
	if p.OriginalPrice < p.Price || p.OriginalPrice != 12 {
		t.Fatalf("original price = %v", p.OriginalPrice)
	}
	if p.InStock {
		t.Fatal("stock 0 must not be in stock")
	}
	if p.Image != "a.png" {
		t.Fatalf("image = %q", p.Image)
	}
}

func TestQueryStateStrategy(t *testing.T) {
	q := NewQueryState(12)
	if q.Strategy() != StrategyPaged {
		t.Fatalf("got %s", q.Strategy())
	}
	q.Category = "Smartphones"
	if q.Strategy() != StrategyCategory {
		t.Fatalf("got %s", q.Strategy())
	}
	q.SearchTerm = "  phone "
	if q.Strategy() != StrategySearch {
		t.Fatalf("got %s", q.Strategy())
	}
	q.SearchTerm = "   "
	if q.Strategy() != StrategyCategory {
		t.Fatalf("blank search must be inactive, got %s", q.Strategy())
	}
}

func TestRemoteErrorIsNetwork(t *testing.T) {
	err := error(&RemoteError{Op: "search", StatusCode: 503, Err: errors.New("down")})
	if !errors.Is(err, ErrNetwork) {
		t.Fatal("RemoteError must match ErrNetwork")
	}
}
