package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-catalog/internal/domain"
	memcache "storefront-catalog/internal/infrastructure/cache"
)

type fakeAdmin struct {
	mu       sync.Mutex
	users    []domain.User
	carts    []domain.UserCart
	cartsErr error
	deleted  []int
	searched []string
}

func newFakeAdmin() *fakeAdmin {
	f := &fakeAdmin{}
	for i := 1; i <= 7; i++ {
		f.users = append(f.users, domain.User{ID: i, Username: "user" + string(rune('a'+i-1))})
	}
	for i := 1; i <= 5; i++ {
		f.carts = append(f.carts, domain.UserCart{ID: i, UserID: 1 + i%2})
	}
	return f
}

func (f *fakeAdmin) ListUsers(ctx context.Context, limit, skip int) (*domain.UserList, error) {
	end := min(skip+limit, len(f.users))
	return &domain.UserList{Users: f.users[min(skip, end):end], Total: len(f.users), Skip: skip, Limit: limit}, nil
}

func (f *fakeAdmin) SearchUsers(ctx context.Context, query string) (*domain.UserList, error) {
	f.mu.Lock()
	f.searched = append(f.searched, query)
	f.mu.Unlock()
	return &domain.UserList{Users: f.users[:1], Total: 1}, nil
}

func (f *fakeAdmin) GetUser(ctx context.Context, id int) (*domain.User, error) {
	if id < 1 || id > len(f.users) {
		return nil, domain.ErrUserNotFound
	}
	return &f.users[id-1], nil
}

func (f *fakeAdmin) ListCarts(ctx context.Context, limit, skip int) (*domain.UserCartList, error) {
	if f.cartsErr != nil {
		return nil, f.cartsErr
	}
	end := min(skip+limit, len(f.carts))
	return &domain.UserCartList{Carts: f.carts[min(skip, end):end], Total: len(f.carts), Skip: skip, Limit: limit}, nil
}

func (f *fakeAdmin) CartsByUser(ctx context.Context, userID int) (*domain.UserCartList, error) {
	var out []domain.UserCart
	for _, c := range f.carts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return &domain.UserCartList{Carts: out, Total: len(out)}, nil
}

func (f *fakeAdmin) GetCart(ctx context.Context, id int) (*domain.UserCart, error) {
	if id < 1 || id > len(f.carts) {
		return nil, domain.ErrCartNotFound
	}
	return &f.carts[id-1], nil
}

func (f *fakeAdmin) DeleteCart(ctx context.Context, id int) error {
	if id < 1 || id > len(f.carts) {
		return domain.ErrCartNotFound
	}
	return nil
}

func (f *fakeAdmin) AddProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: 500, Name: in.Title, Price: in.Price}, nil
}

func (f *fakeAdmin) UpdateProduct(ctx context.Context, id int, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: id, Name: in.Title, Price: in.Price}, nil
}

func (f *fakeAdmin) DeleteProduct(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	admin := newFakeAdmin()
	uc := NewAdminUsecase(newFakeSource(42), admin, memcache.NewMemoryCache(time.Minute, time.Minute), 10)

	stats, err := uc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if *stats != (DashboardStats{Products: 42, Carts: 5, Users: 7}) {
		t.Fatalf("stats = %+v", stats)
	}

	admin.cartsErr = &domain.RemoteError{Op: "list carts", StatusCode: 503, Err: errors.New("down")}
	if _, err := uc.Stats(ctx); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("err = %v", err)
	}
}

func TestAdminListings(t *testing.T) {
	ctx := context.Background()
	admin := newFakeAdmin()
	uc := NewAdminUsecase(newFakeSource(25), admin, memcache.NewMemoryCache(time.Minute, time.Minute), 10)

	t.Run("products sort within the page", func(t *testing.T) {
		page, err := uc.ListProducts(ctx, 3, domain.SortPrice, domain.SortAsc)
		if err != nil {
			t.Fatal(err)
		}
		// page 3 holds ids 21..25, priced 1000-id
		if len(page.Items) != 5 || page.Items[0].ID != 25 || page.Items[4].ID != 21 {
			t.Fatalf("items = %+v", page.Items)
		}
		if page.Total != 25 || page.TotalPages != 3 || page.Page != 3 {
			t.Fatalf("page = %+v", page)
		}
	})

	t.Run("page below one reads the first page", func(t *testing.T) {
		page, err := uc.ListProducts(ctx, 0, domain.SortNone, domain.SortAsc)
		if err != nil || page.Page != 1 || page.Items[0].ID != 1 {
			t.Fatalf("ListProducts = (%+v, %v)", page, err)
		}
	})

	t.Run("carts", func(t *testing.T) {
		page, err := uc.ListCarts(ctx, 1, 0)
		if err != nil || len(page.Items) != 5 || page.TotalPages != 1 {
			t.Fatalf("ListCarts = (%+v, %v)", page, err)
		}
		byUser, err := uc.ListCarts(ctx, 4, 2)
		if err != nil || len(byUser.Items) != 3 || byUser.Page != 1 || byUser.TotalPages != 1 {
			t.Fatalf("ListCarts by user = (%+v, %v)", byUser, err)
		}
		none, err := uc.ListCarts(ctx, 1, 99)
		if err != nil || none.Items == nil || none.Total != 0 {
			t.Fatalf("ListCarts unknown user = (%+v, %v)", none, err)
		}
	})

	t.Run("users search ignores the page", func(t *testing.T) {
		page, err := uc.ListUsers(ctx, 5, "  usera ")
		if err != nil || len(page.Items) != 1 || page.Page != 1 {
			t.Fatalf("ListUsers = (%+v, %v)", page, err)
		}
		if len(admin.searched) != 1 || admin.searched[0] != "usera" {
			t.Fatalf("searched = %q", admin.searched)
		}
		page, err = uc.ListUsers(ctx, 1, "")
		if err != nil || len(page.Items) != 7 {
			t.Fatalf("ListUsers = (%+v, %v)", page, err)
		}
	})

	t.Run("not found passes through", func(t *testing.T) {
		if _, err := uc.GetUser(ctx, 50); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("err = %v", err)
		}
		if err := uc.DeleteCart(ctx, 50); !errors.Is(err, domain.ErrCartNotFound) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestAdminProductWritesInvalidateCatalogCache(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(20)
	admin := newFakeAdmin()
	catalogCache := memcache.NewMemoryCache(time.Minute, time.Minute)
	catalog := NewCatalogUsecase(src, catalogCache, testConfig())
	uc := NewAdminUsecase(src, admin, catalogCache, 10)

	if err := catalog.WarmCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.GetProduct(ctx, 4); err != nil {
		t.Fatal(err)
	}

	if _, err := uc.UpdateProduct(ctx, 4, domain.ProductInput{Title: "Renamed", Price: 3}); err != nil {
		t.Fatal(err)
	}
	if _, found := catalogCache.Get(cacheKeyFullCatalog); found {
		t.Fatal("full catalog still cached after update")
	}
	if _, err := catalog.GetProduct(ctx, 4); err != nil {
		t.Fatal(err)
	}
	if n := src.count("get"); n != 2 {
		t.Fatalf("remote gets = %d, want a refetch after update", n)
	}

	t.Run("invalid input never reaches the remote", func(t *testing.T) {
		for _, in := range []domain.ProductInput{
			{Title: ""},
			{Title: "x", Price: -1},
			{Title: "x", Stock: -2},
			{Title: "x", DiscountPercentage: 120},
		} {
			if _, err := uc.CreateProduct(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("CreateProduct(%+v) err = %v", in, err)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := uc.DeleteProduct(ctx, 7); err != nil {
			t.Fatal(err)
		}
		if len(admin.deleted) != 1 || admin.deleted[0] != 7 {
			t.Fatalf("deleted = %v", admin.deleted)
		}
	})
}
