package session

import (
	"context"
	"testing"
	"time"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

// blockedFactory builds pages whose fetch resolves only when release is closed
func blockedFactory(release chan struct{}) PageFactory {
	repo := catalog.NewRepository(catalog.SourceFunc(func(ctx context.Context) ([]models.ProductRow, error) {
		<-release
		return []models.ProductRow{{ID: 1, Name: "Pan", Category: "Panadería", Price: 1}}, nil
	}))
	return func() *catalog.Page {
		return catalog.NewPage(repo, catalog.NewSearchTerm())
	}
}

func TestRegistry_MountGetUnmount(t *testing.T) {
	release := make(chan struct{})
	close(release)
	reg, err := NewRegistry(4, blockedFactory(release))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, page := reg.Mount(context.Background())
	if id == "" {
		t.Fatalf("expected a page id")
	}
	got, ok := reg.Get(id)
	if !ok || got != page {
		t.Fatalf("expected mounted page to be addressable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := page.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.View().Status != catalog.StatusReady {
		t.Fatalf("expected ready page, got %s", page.View().Status)
	}

	if !reg.Unmount(id) {
		t.Fatalf("expected unmount to report a known id")
	}
	if reg.Unmount(id) {
		t.Fatalf("expected second unmount to report an unknown id")
	}
	if _, ok := reg.Get(id); ok {
		t.Fatalf("expected page to be gone")
	}
}

func TestRegistry_EvictionUnmountsOldestPage(t *testing.T) {
	release := make(chan struct{})
	reg, err := NewRegistry(1, blockedFactory(release))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	oldID, oldPage := reg.Mount(context.Background())
	newID, _ := reg.Mount(context.Background())
	close(release)

	if _, ok := reg.Get(oldID); ok {
		t.Fatalf("expected oldest page evicted")
	}
	if _, ok := reg.Get(newID); !ok {
		t.Fatalf("expected newest page kept")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one page, got %d", reg.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := oldPage.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := oldPage.View().Status; got != catalog.StatusLoading {
		t.Fatalf("expected evicted page to discard its fetch, got %s", got)
	}
}

func TestNewRegistry_InvalidSize(t *testing.T) {
	if _, err := NewRegistry(0, blockedFactory(make(chan struct{}))); err == nil {
		t.Fatalf("expected error for zero size")
	}
}
