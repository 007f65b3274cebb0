package http_api

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/validation"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	serviceName    = "TON NFT Marketplace API"
	serviceVersion = "1.0.0"
	currency       = "TON"
)

// Pagination describes the requested page. Total is exact only when the
// collection exposes a numeric item count, otherwise it is the page length.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NFTListResponse is the payload of GET /api/nfts
type NFTListResponse struct {
	NFTs       []models.NFT      `json:"nfts"`
	Collection models.Collection `json:"collection"`
	Pagination Pagination        `json:"pagination"`
}

// BalanceResponse is the payload of GET /api/wallet/balance/:address
type BalanceResponse struct {
	Address     string        `json:"address"`
	Balance     string        `json:"balance"`
	Currency    string        `json:"currency"`
	Available   bool          `json:"available"`
	Source      models.Source `json:"source"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// PurchaseResponse is the payload of POST /api/transactions/purchase
type PurchaseResponse struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	TransactionHash *string `json:"transactionHash"`
	Message         string  `json:"message"`
	NFTAddress      string  `json:"nftAddress"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondInternal hides error details outside development mode.
func (s *HTTPServer) respondInternal(c *gin.Context, message string, err error) {
	s.logger.Error(message, "path", c.Request.URL.Path, "error", err)
	if s.development && err != nil {
		message += ": " + err.Error()
	}
	respondError(c, http.StatusInternalServerError, message)
}

// validAddress validates the path parameter and writes a 400 on failure.
func (s *HTTPServer) validAddress(c *gin.Context, param, message string) (string, bool) {
	address, err := validation.ValidateAndNormalizeAddress(c.Param(param))
	if err != nil {
		s.logger.Debug("Invalid address", "param", param, "address", c.Param(param), "error", err)
		respondError(c, http.StatusBadRequest, message)
		return "", false
	}
	return address, true
}

func (s *HTTPServer) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName + " is running!",
		"version": serviceVersion,
		"endpoints": gin.H{
			"health":       "/health",
			"metrics":      "/metrics",
			"nfts":         "/api/nfts",
			"wallet":       "/api/wallet",
			"transactions": "/api/transactions",
		},
	})
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"goVersion": runtime.Version(),
	})
}

func (s *HTTPServer) notFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Endpoint not found")
}

// getNFTs is a handler for the /api/nfts endpoint.
func (s *HTTPServer) getNFTs(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		respondError(c, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		respondError(c, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	page := s.marketplace.GetNFTs(c.Request.Context(), limit, offset)
	s.logger.Debug("NFT page served", "limit", limit, "offset", offset, "source", page.Source, "count", len(page.NFTs))

	total, ok := page.Collection.ItemsCount.Exact()
	if !ok {
		total = len(page.NFTs)
	}

	respondOK(c, NFTListResponse{
		NFTs:       page.NFTs,
		Collection: page.Collection,
		Pagination: Pagination{Limit: limit, Offset: offset, Total: total},
	})
}

// getNFT is a handler for the /api/nfts/:nftAddress endpoint.
func (s *HTTPServer) getNFT(c *gin.Context) {
	address := c.Param("nftAddress")
	if address == "" {
		respondError(c, http.StatusBadRequest, "NFT address is required")
		return
	}

	nft, err := s.marketplace.GetNFTDetails(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NFT not found")
			return
		}
		s.respondInternal(c, "Failed to fetch NFT details", err)
		return
	}
	respondOK(c, nft)
}

// getCollectionInfo is a handler for the /api/nfts/collection/info endpoint.
func (s *HTTPServer) getCollectionInfo(c *gin.Context) {
	respondOK(c, s.marketplace.GetCollectionInfo(c.Request.Context()))
}

// getCollection is a handler for the /api/nfts/collection/:address endpoint.
func (s *HTTPServer) getCollection(c *gin.Context) {
	address, ok := s.validAddress(c, "address", "Invalid collection address")
	if !ok {
		return
	}

	collection, err := s.marketplace.GetCollectionByAddress(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Collection not found")
			return
		}
		s.respondInternal(c, "Failed to fetch collection", err)
		return
	}
	respondOK(c, collection)
}

// getNFTsByOwner is a handler for the /api/nfts/owner/:ownerAddress endpoint.
func (s *HTTPServer) getNFTsByOwner(c *gin.Context) {
	owner, ok := s.validAddress(c, "ownerAddress", "Invalid TON wallet address")
	if !ok {
		return
	}

	nfts := s.marketplace.GetNFTsByOwner(c.Request.Context(), owner)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    nfts,
		"count":   len(nfts),
	})
}

// getBalance is a handler for the /api/wallet/balance/:address endpoint.
func (s *HTTPServer) getBalance(c *gin.Context) {
	address, ok := s.validAddress(c, "address", "Invalid TON wallet address")
	if !ok {
		return
	}

	b := s.marketplace.Balance(c.Request.Context(), address)
	respondOK(c, BalanceResponse{
		Address:     b.Address,
		Balance:     b.Balance,
		Currency:    currency,
		Available:   b.Available,
		Source:      b.Source,
		LastUpdated: b.FetchedAt,
	})
}

// getWalletInfo is a handler for the /api/wallet/info/:address endpoint.
func (s *HTTPServer) getWalletInfo(c *gin.Context) {
	address, ok := s.validAddress(c, "address", "Invalid TON wallet address")
	if !ok {
		return
	}
	respondOK(c, s.marketplace.GetWalletInfo(c.Request.Context(), address))
}

// purchase is a handler for the /api/transactions/purchase endpoint.
// A simulated failure still answers 200 with success=false.
func (s *HTTPServer) purchase(c *gin.Context) {
	var req models.PurchaseRequest

	// Parse and validate JSON request body
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		respondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	p, err := s.transactions.Purchase(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidAddress) || errors.Is(err, models.ErrInvalidPurchase) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		s.respondInternal(c, "Failed to process purchase", err)
		return
	}

	var hash *string
	if p.Hash != "" {
		hash = &p.Hash
	}
	c.JSON(http.StatusOK, gin.H{
		"success": p.Success(),
		"data": PurchaseResponse{
			ID:              p.ID,
			Status:          p.Status,
			TransactionHash: hash,
			Message:         p.Message,
			NFTAddress:      req.NFTAddress,
		},
	})
}

// history is a handler for the /api/transactions/history/:address endpoint.
func (s *HTTPServer) history(c *gin.Context) {
	address, ok := s.validAddress(c, "address", "Invalid TON wallet address")
	if !ok {
		return
	}

	purchases, err := s.transactions.History(c.Request.Context(), address)
	if err != nil {
		s.respondInternal(c, "Failed to fetch transaction history", err)
		return
	}
	respondOK(c, purchases)
}

func queryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
