package http_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/metrics"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
)

const (
	wallet     = "EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJnZ"
	seller     = "EQD4FPq-PRDieyQKkizFTRtSDyucUIqrj0v_zXJmqaDp6_0t"
	collection = "EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJnZ"
)

type fakeMarketplace struct {
	page       models.NFTPage
	nft        *models.NFT
	nftErr     error
	collection models.Collection
	byAddress  *models.Collection
	byAddrErr  error
	owned      []models.NFT
	balance    models.Balance

	gotLimit, gotOffset int
	gotOwner            string
}

func (f *fakeMarketplace) GetNFTs(_ context.Context, limit, offset int) models.NFTPage {
	f.gotLimit, f.gotOffset = limit, offset
	return f.page
}

func (f *fakeMarketplace) GetNFTDetails(context.Context, string) (*models.NFT, error) {
	return f.nft, f.nftErr
}

func (f *fakeMarketplace) GetCollectionInfo(context.Context) models.Collection {
	return f.collection
}

func (f *fakeMarketplace) GetCollectionByAddress(context.Context, string) (*models.Collection, error) {
	return f.byAddress, f.byAddrErr
}

func (f *fakeMarketplace) GetNFTsByOwner(_ context.Context, owner string) []models.NFT {
	f.gotOwner = owner
	return f.owned
}

func (f *fakeMarketplace) GetBalance(ctx context.Context, address string) string {
	return f.Balance(ctx, address).Balance
}

func (f *fakeMarketplace) Balance(_ context.Context, address string) models.Balance {
	b := f.balance
	b.Address = address
	return b
}

func (f *fakeMarketplace) GetWalletInfo(ctx context.Context, address string) models.WalletInfo {
	b := f.Balance(ctx, address)
	return models.WalletInfo{Address: address, Balance: b.Balance, Available: b.Available, NFTs: f.owned, NFTCount: len(f.owned)}
}

type fakeTransactions struct {
	purchase *models.Purchase
	err      error
	history  []*models.Purchase
	gotReq   models.PurchaseRequest
}

func (f *fakeTransactions) Purchase(_ context.Context, req models.PurchaseRequest) (*models.Purchase, error) {
	f.gotReq = req
	return f.purchase, f.err
}

func (f *fakeTransactions) History(context.Context, string) ([]*models.Purchase, error) {
	return f.history, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
}

func newTestServer(m *fakeMarketplace, tx *fakeTransactions) *HTTPServer {
	gin.SetMode(gin.TestMode)
	return NewHTTPServer(m, tx, Options{Port: 0, CORSOrigin: "http://localhost:3000", Metrics: metrics.New()}, logger.NewNop())
}

func do(t *testing.T, s *HTTPServer, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestGetNFTs(t *testing.T) {
	m := &fakeMarketplace{page: models.NFTPage{
		NFTs:       []models.NFT{{ID: "mock-1", Attributes: []models.Attribute{}}},
		Collection: models.Collection{Name: "Getgems NFT Collection", ItemsCount: models.ParseItemsCount("1000+")},
	}}
	s := newTestServer(m, &fakeTransactions{})

	rec, env := do(t, s, http.MethodGet, "/api/nfts?limit=10&offset=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 10, m.gotLimit)
	assert.Equal(t, 5, m.gotOffset)

	var data NFTListResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.NFTs, 1)
	assert.Equal(t, Pagination{Limit: 10, Offset: 5, Total: 1}, data.Pagination)
	assert.Equal(t, "1000+", data.Collection.ItemsCount.String())
}

func TestGetNFTsExactTotal(t *testing.T) {
	m := &fakeMarketplace{page: models.NFTPage{Collection: models.Collection{ItemsCount: models.ExactCount(420)}}}
	s := newTestServer(m, &fakeTransactions{})

	_, env := do(t, s, http.MethodGet, "/api/nfts", "")
	var data NFTListResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, Pagination{Limit: defaultLimit, Offset: 0, Total: 420}, data.Pagination)
}

func TestGetNFTsRejectsBadPaging(t *testing.T) {
	s := newTestServer(&fakeMarketplace{}, &fakeTransactions{})

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1"} {
		rec, env := do(t, s, http.MethodGet, "/api/nfts?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.False(t, env.Success)
	}
}

func TestGetNFT(t *testing.T) {
	m := &fakeMarketplace{nft: &models.NFT{ID: "EQitem", Name: "Item"}}
	s := newTestServer(m, &fakeTransactions{})

	rec, env := do(t, s, http.MethodGet, "/api/nfts/EQitem", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var nft models.NFT
	require.NoError(t, json.Unmarshal(env.Data, &nft))
	assert.Equal(t, "Item", nft.Name)

	m.nft, m.nftErr = nil, fmt.Errorf("%w: nft EQitem", models.ErrNotFound)
	rec, env = do(t, s, http.MethodGet, "/api/nfts/EQitem", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NFT not found", env.Error)

	m.nftErr = errors.New("boom")
	rec, _ = do(t, s, http.MethodGet, "/api/nfts/EQitem", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCollectionRoutes(t *testing.T) {
	m := &fakeMarketplace{
		collection: models.Collection{Name: "Info"},
		byAddress:  &models.Collection{Name: "ByAddress"},
	}
	s := newTestServer(m, &fakeTransactions{})

	rec, env := do(t, s, http.MethodGet, "/api/nfts/collection/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"Info"`)

	rec, env = do(t, s, http.MethodGet, "/api/nfts/collection/"+collection, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"ByAddress"`)

	rec, _ = do(t, s, http.MethodGet, "/api/nfts/collection/bad", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	m.byAddress, m.byAddrErr = nil, models.ErrNotFound
	rec, env = do(t, s, http.MethodGet, "/api/nfts/collection/"+collection, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Collection not found", env.Error)
}

func TestGetNFTsByOwner(t *testing.T) {
	m := &fakeMarketplace{owned: []models.NFT{{ID: "a"}, {ID: "b"}}}
	s := newTestServer(m, &fakeTransactions{})

	rec, env := do(t, s, http.MethodGet, "/api/nfts/owner/"+wallet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	assert.Equal(t, wallet, m.gotOwner)
}

func TestGetBalance(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &fakeMarketplace{balance: models.Balance{Balance: "1.50", Source: models.SourceToncenter, Available: true, FetchedAt: fetched}}
	s := newTestServer(m, &fakeTransactions{})

	rec, env := do(t, s, http.MethodGet, "/api/wallet/balance/"+wallet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data BalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, BalanceResponse{
		Address:     wallet,
		Balance:     "1.50",
		Currency:    "TON",
		Available:   true,
		Source:      models.SourceToncenter,
		LastUpdated: fetched,
	}, data)
}

func TestWalletRoutesRejectInvalidAddress(t *testing.T) {
	s := newTestServer(&fakeMarketplace{}, &fakeTransactions{})

	for _, path := range []string{
		"/api/wallet/balance/invalid",
		"/api/wallet/info/EQshort",
		"/api/transactions/history/nope",
		"/api/nfts/owner/nope",
	} {
		rec, env := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Invalid TON wallet address", env.Error, path)
	}
}

func TestGetWalletInfo(t *testing.T) {
	m := &fakeMarketplace{balance: models.Balance{Balance: "0", Available: false}, owned: []models.NFT{{ID: "a"}}}
	s := newTestServer(m, &fakeTransactions{})

	rec, env := do(t, s, http.MethodGet, "/api/wallet/info/"+wallet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info models.WalletInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, 1, info.NFTCount)
	assert.False(t, info.Available)
}

func TestPurchase(t *testing.T) {
	tx := &fakeTransactions{purchase: &models.Purchase{
		ID:      "id-1",
		Status:  models.PurchaseCompleted,
		Hash:    "0xabc",
		Message: "Transaction completed successfully",
	}}
	s := newTestServer(&fakeMarketplace{}, tx)

	body := fmt.Sprintf(`{"buyerAddress":%q,"sellerAddress":%q,"nftPrice":"0.5","nftAddress":"EQitem"}`, wallet, seller)
	rec, env := do(t, s, http.MethodPost, "/api/transactions/purchase", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "0.5", tx.gotReq.NFTPrice)

	var data PurchaseResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.TransactionHash)
	assert.Equal(t, "0xabc", *data.TransactionHash)
	assert.Equal(t, "EQitem", data.NFTAddress)
}

func TestPurchaseSimulatedFailure(t *testing.T) {
	tx := &fakeTransactions{purchase: &models.Purchase{ID: "id-2", Status: models.PurchaseFailed, Message: "Transaction failed"}}
	s := newTestServer(&fakeMarketplace{}, tx)

	body := fmt.Sprintf(`{"buyerAddress":%q,"sellerAddress":%q,"nftPrice":"1"}`, wallet, seller)
	rec, env := do(t, s, http.MethodPost, "/api/transactions/purchase", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Data), `"transactionHash":null`)
}

func TestPurchaseBadRequests(t *testing.T) {
	tx := &fakeTransactions{}
	s := newTestServer(&fakeMarketplace{}, tx)

	rec, env := do(t, s, http.MethodPost, "/api/transactions/purchase", `{"buyerAddress":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", env.Error)

	tx.err = fmt.Errorf("%w: price must be positive", models.ErrInvalidPurchase)
	body := fmt.Sprintf(`{"buyerAddress":%q,"sellerAddress":%q,"nftPrice":"-1"}`, wallet, seller)
	rec, _ = do(t, s, http.MethodPost, "/api/transactions/purchase", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tx.err = context.Canceled
	rec, _ = do(t, s, http.MethodPost, "/api/transactions/purchase", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHistory(t *testing.T) {
	tx := &fakeTransactions{history: []*models.Purchase{{ID: "2"}, {ID: "1"}}}
	s := newTestServer(&fakeMarketplace{}, tx)

	rec, env := do(t, s, http.MethodGet, "/api/transactions/history/"+wallet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var purchases []models.Purchase
	require.NoError(t, json.Unmarshal(env.Data, &purchases))
	require.Len(t, purchases, 2)
	assert.Equal(t, "2", purchases[0].ID)
}

func TestServiceRoutes(t *testing.T) {
	s := newTestServer(&fakeMarketplace{}, &fakeTransactions{})

	rec, _ := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)

	rec, _ = do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is running")

	rec, env := do(t, s, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", env.Error)

	rec, _ = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nft_marketplace_http_requests_total")
}

func TestCORS(t *testing.T) {
	s := newTestServer(&fakeMarketplace{}, &fakeTransactions{})

	rec, _ := do(t, s, http.MethodOptions, "/api/nfts", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
