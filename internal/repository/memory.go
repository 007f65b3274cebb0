package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
)

// MemoryDB keeps purchases in process memory. Used when no database is configured.
type MemoryDB struct {
	mu        sync.RWMutex
	purchases []*models.Purchase
	ids       map[string]struct{}
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{ids: make(map[string]struct{})}
}

var _ models.Repository = (*MemoryDB)(nil)

func (db *MemoryDB) Close() error {
	return nil
}

func (db *MemoryDB) AddPurchase(_ context.Context, purchase *models.Purchase) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.ids[purchase.ID]; exists {
		return fmt.Errorf("failed to add purchase: duplicate id %s", purchase.ID)
	}
	stored := *purchase
	db.purchases = append(db.purchases, &stored)
	db.ids[purchase.ID] = struct{}{}
	return nil
}

// GetPurchasesByAddress returns purchases where address is buyer or seller, newest first.
// Purchases with equal timestamps are returned in reverse insertion order.
func (db *MemoryDB) GetPurchasesByAddress(_ context.Context, address string, limit int) ([]*models.Purchase, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*models.Purchase, 0)
	for i := len(db.purchases) - 1; i >= 0; i-- {
		p := db.purchases[i]
		if p.BuyerAddress == address || p.SellerAddress == address {
			c := *p
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
