package marketplace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/cache"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/getgems"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/normalizer"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/tonapi"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

const testCollection = "EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJnZ"

func str(s string) *string { return &s }

type fakeStructured struct {
	nodes    []*getgems.NFTNode
	nodesErr error

	nft    *getgems.NFTNode
	nftErr error

	collection    *getgems.CollectionNode
	collectionErr error

	listCalls int32
	nftCalls  int32
}

func (f *fakeStructured) CollectionNFTs(_ context.Context, _ string, _, _ int) ([]*getgems.NFTNode, error) {
	atomic.AddInt32(&f.listCalls, 1)
	return f.nodes, f.nodesErr
}

func (f *fakeStructured) NFT(_ context.Context, _ string) (*getgems.NFTNode, error) {
	atomic.AddInt32(&f.nftCalls, 1)
	return f.nft, f.nftErr
}

func (f *fakeStructured) Collection(_ context.Context, _ string) (*getgems.CollectionNode, error) {
	return f.collection, f.collectionErr
}

type fakeREST struct {
	items    []*tonapi.NFTItem
	itemsErr error

	account    *tonapi.Account
	accountErr error

	balance    units.Nano
	balanceErr error

	listCalls    int32
	balanceCalls int32

	mu       sync.Mutex
	accounts []string
}

func (f *fakeREST) AccountNFTs(_ context.Context, account string, _, _ int) ([]*tonapi.NFTItem, error) {
	atomic.AddInt32(&f.listCalls, 1)
	f.mu.Lock()
	f.accounts = append(f.accounts, account)
	f.mu.Unlock()
	return f.items, f.itemsErr
}

func (f *fakeREST) Account(_ context.Context, _ string) (*tonapi.Account, error) {
	return f.account, f.accountErr
}

func (f *fakeREST) Balance(_ context.Context, _ string) (units.Nano, error) {
	atomic.AddInt32(&f.balanceCalls, 1)
	return f.balance, f.balanceErr
}

type fakeBalances struct {
	balance units.Nano
	err     error
	calls   int32
}

func (f *fakeBalances) Balance(_ context.Context, _ string) (units.Nano, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.balance, f.err
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	structured *fakeStructured
	rest       *fakeREST
	balances   *fakeBalances
	clock      *fakeClock
	market     *Marketplace
}

func newFixture() *fixture {
	f := &fixture{
		structured: &fakeStructured{},
		rest:       &fakeREST{},
		balances:   &fakeBalances{},
		clock:      newFakeClock(),
	}
	norm := normalizer.New(normalizer.Config{CollectionAddress: testCollection})
	f.market = NewMarketplace(
		testCollection,
		f.structured,
		f.rest,
		f.balances,
		norm,
		cache.New[models.Balance](cache.DefaultTTL, f.clock),
		nil,
		logger.NewNop(),
	)
	return f
}
