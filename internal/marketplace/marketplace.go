// Package marketplace resolves NFT, collection and wallet data from several
// unreliable upstream providers. Every operation runs an explicit fallback chain:
// the structured GraphQL provider first, the REST provider second and fixed
// defaults last.
package marketplace

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/cache"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/getgems"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/metrics"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/normalizer"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/tonapi"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

const (
	// ownerPageSize is the number of items requested for an owner query.
	ownerPageSize = 50

	balanceKeyPrefix = "balance_"
)

// Operation names used in logs and metrics.
const (
	opListNFTs          = "get_nfts"
	opNFTDetails        = "get_nft_details"
	opCollectionInfo    = "get_collection_info"
	opCollectionAddress = "get_collection"
	opOwnerNFTs         = "get_nfts_by_owner"
	opBalance           = "get_balance"
)

// StructuredProvider is the primary GraphQL data source.
type StructuredProvider interface {
	CollectionNFTs(ctx context.Context, collection string, limit, offset int) ([]*getgems.NFTNode, error)
	NFT(ctx context.Context, address string) (*getgems.NFTNode, error)
	Collection(ctx context.Context, address string) (*getgems.CollectionNode, error)
}

// RESTProvider is the secondary REST data source.
type RESTProvider interface {
	AccountNFTs(ctx context.Context, account string, limit, offset int) ([]*tonapi.NFTItem, error)
	Account(ctx context.Context, address string) (*tonapi.Account, error)
	Balance(ctx context.Context, address string) (units.Nano, error)
}

// BalanceProvider is the primary balance endpoint.
type BalanceProvider interface {
	Balance(ctx context.Context, address string) (units.Nano, error)
}

// Marketplace is the aggregation facade consumed by the HTTP layer and the bot.
type Marketplace struct {
	logger  *logger.Logger
	metrics *metrics.Metrics

	collectionAddress string

	structured StructuredProvider
	rest       RESTProvider
	balances   BalanceProvider
	normalizer *normalizer.Normalizer

	balanceCache *cache.Cache[models.Balance]
	now          func() time.Time
}

// NewMarketplace creates a Marketplace. The balance cache is injected so
// tests can drive expiry with their own clock. metrics may be nil.
func NewMarketplace(
	collectionAddress string,
	structured StructuredProvider,
	rest RESTProvider,
	balances BalanceProvider,
	norm *normalizer.Normalizer,
	balanceCache *cache.Cache[models.Balance],
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Marketplace {
	if balanceCache == nil {
		balanceCache = cache.New[models.Balance](cache.DefaultTTL, nil)
	}
	return &Marketplace{
		logger:            logger,
		metrics:           metrics,
		collectionAddress: collectionAddress,
		structured:        structured,
		rest:              rest,
		balances:          balances,
		normalizer:        norm,
		balanceCache:      balanceCache,
		now:               time.Now,
	}
}

var _ models.MarketplaceI = (*Marketplace)(nil)

// GetNFTs returns a page of the configured collection together with its metadata.
// Listings are never cached: every call runs the chain again.
func (m *Marketplace) GetNFTs(ctx context.Context, limit, offset int) models.NFTPage {
	var page models.NFTPage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page.NFTs, page.Source = m.listNFTs(gctx, limit, offset)
		return nil
	})
	g.Go(func() error {
		page.Collection = m.GetCollectionInfo(gctx)
		return nil
	})
	_ = g.Wait()

	return page
}

func (m *Marketplace) listNFTs(ctx context.Context, limit, offset int) ([]models.NFT, models.Source) {
	tiers := []tier[[]models.NFT]{
		{source: models.SourceGetgems, fetch: func(ctx context.Context) ([]models.NFT, error) {
			nodes, err := m.structured.CollectionNFTs(ctx, m.collectionAddress, limit, offset)
			if err != nil {
				return nil, err
			}
			return m.normalizer.Getgems(nodes), nil
		}},
		{source: models.SourceTonAPI, fetch: func(ctx context.Context) ([]models.NFT, error) {
			items, err := m.rest.AccountNFTs(ctx, m.collectionAddress, limit, offset)
			if err != nil {
				return nil, err
			}
			return m.normalizer.TonAPI(items), nil
		}},
	}

	nfts, source, err := runChain(ctx, m, opListNFTs, tiers, func(nfts []models.NFT) bool { return len(nfts) > 0 })
	if err != nil {
		m.logger.Warn("All NFT providers failed, serving synthetic listing", "limit", limit, "offset", offset, "error", err)
		m.metrics.RecordServed(opListNFTs, string(models.SourceSynthetic))
		return m.normalizer.SyntheticNFTs(), models.SourceSynthetic
	}
	return nfts, source
}

// GetNFTDetails resolves a single item through the structured provider only.
// It never substitutes synthetic data.
func (m *Marketplace) GetNFTDetails(ctx context.Context, address string) (*models.NFT, error) {
	tiers := []tier[*models.NFT]{
		{source: models.SourceGetgems, fetch: func(ctx context.Context) (*models.NFT, error) {
			node, err := m.structured.NFT(ctx, address)
			if err != nil {
				return nil, err
			}
			return m.normalizer.FromGetgems(node), nil
		}},
	}

	nft, _, err := runChain(ctx, m, opNFTDetails, tiers, func(n *models.NFT) bool { return n != nil })
	if err != nil {
		return nil, fmt.Errorf("%w: nft %s: %v", models.ErrNotFound, address, err)
	}
	return nft, nil
}

// GetCollectionInfo describes the configured collection, falling back to a fixed descriptor.
func (m *Marketplace) GetCollectionInfo(ctx context.Context) models.Collection {
	tiers := []tier[*models.Collection]{
		{source: models.SourceTonAPI, fetch: func(ctx context.Context) (*models.Collection, error) {
			account, err := m.rest.Account(ctx, m.collectionAddress)
			if err != nil {
				return nil, err
			}
			return m.normalizer.CollectionFromAccount(m.collectionAddress, account), nil
		}},
	}

	collection, _, err := runChain(ctx, m, opCollectionInfo, tiers, func(c *models.Collection) bool { return c != nil })
	if err != nil {
		m.logger.Warn("Collection info unavailable, serving fallback", "collection", m.collectionAddress, "error", err)
		m.metrics.RecordServed(opCollectionInfo, string(models.SourceSynthetic))
		return m.normalizer.FallbackCollection()
	}
	return *collection
}

// GetCollectionByAddress describes an arbitrary collection. Unlike
// GetCollectionInfo it reports ErrNotFound instead of a fallback.
func (m *Marketplace) GetCollectionByAddress(ctx context.Context, address string) (*models.Collection, error) {
	tiers := []tier[*models.Collection]{
		{source: models.SourceGetgems, fetch: func(ctx context.Context) (*models.Collection, error) {
			node, err := m.structured.Collection(ctx, address)
			if err != nil {
				return nil, err
			}
			return m.normalizer.CollectionFromGetgems(address, node), nil
		}},
		{source: models.SourceTonAPI, fetch: func(ctx context.Context) (*models.Collection, error) {
			account, err := m.rest.Account(ctx, address)
			if err != nil {
				return nil, err
			}
			return m.normalizer.CollectionFromAccount(address, account), nil
		}},
	}

	collection, _, err := runChain(ctx, m, opCollectionAddress, tiers, func(c *models.Collection) bool { return c != nil })
	if err != nil {
		return nil, fmt.Errorf("%w: collection %s: %v", models.ErrNotFound, address, err)
	}
	return collection, nil
}

// GetNFTsByOwner lists the items held by owner. Any failure yields an empty list.
func (m *Marketplace) GetNFTsByOwner(ctx context.Context, owner string) []models.NFT {
	tiers := []tier[[]models.NFT]{
		{source: models.SourceTonAPI, fetch: func(ctx context.Context) ([]models.NFT, error) {
			items, err := m.rest.AccountNFTs(ctx, owner, ownerPageSize, 0)
			if err != nil {
				return nil, err
			}
			return m.normalizer.TonAPI(items), nil
		}},
	}

	nfts, _, err := runChain(ctx, m, opOwnerNFTs, tiers, nil)
	if err != nil {
		m.logger.Warn("Owner NFTs unavailable", "owner", owner, "error", err)
		return []models.NFT{}
	}

	for i := range nfts {
		if nfts[i].Owner == nil {
			nfts[i].Owner = models.StringPtr(owner)
		}
	}
	return nfts
}

// GetBalance returns the balance string. UnavailableBalance is returned both
// for a confirmed zero and for total provider failure; use Balance to tell them apart.
func (m *Marketplace) GetBalance(ctx context.Context, address string) string {
	return m.Balance(ctx, address).Balance
}

// Balance returns the wallet balance. Successful lookups are cached per address
// for the cache TTL; failures are never cached.
func (m *Marketplace) Balance(ctx context.Context, address string) models.Balance {
	key := balanceKeyPrefix + address
	if cached, ok := m.balanceCache.Get(key); ok {
		m.metrics.RecordCache(true)
		m.logger.Debug("Balance served from cache", "address", address)
		cached.Source = models.SourceCache
		return cached
	}
	m.metrics.RecordCache(false)

	tiers := []tier[string]{
		{source: models.SourceToncenter, fetch: m.balanceTier(m.balances, address)},
		{source: models.SourceTonAPI, fetch: m.balanceTier(m.rest, address)},
	}

	balance, source, err := runChain(ctx, m, opBalance, tiers, nil)
	if err != nil {
		m.logger.Warn("All balance providers failed", "address", address, "error", err)
		return models.Balance{
			Address:   address,
			Balance:   models.UnavailableBalance,
			Source:    models.SourceNone,
			Available: false,
			FetchedAt: m.now(),
		}
	}

	result := models.Balance{
		Address:   address,
		Balance:   balance,
		Source:    source,
		Available: true,
		FetchedAt: m.now(),
	}
	m.balanceCache.Set(key, result)
	return result
}

// balanceTier fetches a nano balance and converts it. An unparsable amount
// counts as invalid provider data so the chain moves on.
func (m *Marketplace) balanceTier(p BalanceProvider, address string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if p == nil {
			return "", fmt.Errorf("%w: balance provider not configured", models.ErrProviderUnavailable)
		}
		nano, err := p.Balance(ctx, address)
		if err != nil {
			return "", err
		}
		major, err := units.ToMajor(nano)
		if err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrProviderDataInvalid, err)
		}
		return major, nil
	}
}

// GetWalletInfo fetches balance and owned items concurrently.
func (m *Marketplace) GetWalletInfo(ctx context.Context, address string) models.WalletInfo {
	var (
		balance models.Balance
		nfts    []models.NFT
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balance = m.Balance(gctx, address)
		return nil
	})
	g.Go(func() error {
		nfts = m.GetNFTsByOwner(gctx, address)
		return nil
	})
	_ = g.Wait()

	return models.WalletInfo{
		Address:   address,
		Balance:   balance.Balance,
		Available: balance.Available,
		NFTs:      nfts,
		NFTCount:  len(nfts),
	}
}
