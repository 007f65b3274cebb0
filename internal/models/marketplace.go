package models

import "context"

// MarketplaceI is the read-side facade the HTTP layer consumes.
type MarketplaceI interface {
	// GetNFTs returns a page of the configured collection. It never fails:
	// total provider failure degrades to synthetic items.
	GetNFTs(ctx context.Context, limit, offset int) NFTPage

	// GetNFTDetails returns ErrNotFound when the item cannot be resolved.
	GetNFTDetails(ctx context.Context, address string) (*NFT, error)

	// GetCollectionInfo returns metadata of the configured collection, or a fixed fallback.
	GetCollectionInfo(ctx context.Context) Collection

	// GetCollectionByAddress returns ErrNotFound when no provider knows the collection.
	GetCollectionByAddress(ctx context.Context, address string) (*Collection, error)

	// GetNFTsByOwner returns an empty list on any failure.
	GetNFTsByOwner(ctx context.Context, owner string) []NFT

	// GetBalance returns the balance string, UnavailableBalance when every provider failed.
	GetBalance(ctx context.Context, address string) string

	// Balance returns the balance together with its source and availability.
	Balance(ctx context.Context, address string) Balance

	// GetWalletInfo returns balance and owned items of a wallet.
	GetWalletInfo(ctx context.Context, address string) WalletInfo
}

// TransactionService simulates purchases and keeps their history.
type TransactionService interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*Purchase, error)
	History(ctx context.Context, address string) ([]*Purchase, error)
}

// Repository persists purchase simulations.
type Repository interface {
	AddPurchase(ctx context.Context, purchase *Purchase) error
	GetPurchasesByAddress(ctx context.Context, address string, limit int) ([]*Purchase, error)
	Close() error
}
