package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
)

func TestMemoryDBHistory(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.AddPurchase(ctx, &models.Purchase{ID: "1", BuyerAddress: "A", SellerAddress: "B", Timestamp: 100}))
	require.NoError(t, db.AddPurchase(ctx, &models.Purchase{ID: "2", BuyerAddress: "C", SellerAddress: "A", Timestamp: 300}))
	require.NoError(t, db.AddPurchase(ctx, &models.Purchase{ID: "3", BuyerAddress: "C", SellerAddress: "D", Timestamp: 200}))
	require.NoError(t, db.AddPurchase(ctx, &models.Purchase{ID: "4", BuyerAddress: "A", SellerAddress: "D", Timestamp: 300}))

	history, err := db.GetPurchasesByAddress(ctx, "A", 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(history))
	for _, p := range history {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"4", "2", "1"}, ids)

	limited, err := db.GetPurchasesByAddress(ctx, "A", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := db.GetPurchasesByAddress(ctx, "Z", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryDBCopiesRecords(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	p := &models.Purchase{ID: "1", BuyerAddress: "A", Status: models.PurchaseCompleted}
	require.NoError(t, db.AddPurchase(ctx, p))
	p.Status = models.PurchaseFailed

	history, err := db.GetPurchasesByAddress(ctx, "A", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.PurchaseCompleted, history[0].Status)

	history[0].Status = "mutated"
	again, _ := db.GetPurchasesByAddress(ctx, "A", 0)
	assert.Equal(t, models.PurchaseCompleted, again[0].Status)
}

func TestMemoryDBRejectsDuplicateID(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	require.NoError(t, db.AddPurchase(ctx, &models.Purchase{ID: "1"}))
	assert.Error(t, db.AddPurchase(ctx, &models.Purchase{ID: "1"}))
	assert.NoError(t, db.Close())
}
