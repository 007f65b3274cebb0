// Package transaction simulates NFT purchases. Nothing is signed or broadcast:
// a purchase waits a fixed delay, succeeds with a configured probability and
// is recorded in the repository.
package transaction

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/metrics"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/validation"
)

const (
	DefaultDelay       = 2 * time.Second
	DefaultSuccessRate = 0.8

	// historyLimit caps the number of records returned by History.
	historyLimit = 100

	messageCompleted = "Transaction completed successfully"
	messageFailed    = "Transaction failed"
)

// NFTLookup resolves item names for the purchase record.
type NFTLookup interface {
	GetNFTDetails(ctx context.Context, address string) (*models.NFT, error)
}

// Service implements models.TransactionService.
type Service struct {
	logger  *logger.Logger
	metrics *metrics.Metrics

	repo    models.Repository
	catalog NFTLookup

	delay       time.Duration
	successRate float64
	random      func() float64
	now         func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithDelay sets the simulated network delay.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithSuccessRate sets the probability of a successful purchase, clamped to [0, 1].
func WithSuccessRate(rate float64) Option {
	return func(s *Service) {
		s.successRate = min(max(rate, 0), 1)
	}
}

// WithRandom replaces the source of [0, 1) values deciding the outcome.
func WithRandom(fn func() float64) Option {
	return func(s *Service) {
		s.random = fn
	}
}

// WithCatalog enables item name lookup.
func WithCatalog(c NFTLookup) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithMetrics records purchase outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a purchase simulator backed by repo.
func NewService(repo models.Repository, logger *logger.Logger, opts ...Option) *Service {
	s := &Service{
		logger:      logger,
		repo:        repo,
		delay:       DefaultDelay,
		successRate: DefaultSuccessRate,
		random:      mrand.Float64,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ models.TransactionService = (*Service)(nil)

// Purchase validates req, waits for the simulated delay and records the outcome.
// A failed simulation is not an error: it is returned as a purchase with status failed.
func (s *Service) Purchase(ctx context.Context, req models.PurchaseRequest) (*models.Purchase, error) {
	buyer, err := validation.ValidateAndNormalizeAddress(strings.TrimSpace(req.BuyerAddress))
	if err != nil {
		return nil, fmt.Errorf("%w: buyer: %v", models.ErrInvalidAddress, err)
	}
	seller, err := validation.ValidateAndNormalizeAddress(strings.TrimSpace(req.SellerAddress))
	if err != nil {
		return nil, fmt.Errorf("%w: seller: %v", models.ErrInvalidAddress, err)
	}
	price, err := parsePrice(req.NFTPrice)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("purchase simulation cancelled: %w", ctx.Err())
	case <-timer.C:
	}

	purchase := &models.Purchase{
		ID:            uuid.NewString(),
		BuyerAddress:  buyer,
		SellerAddress: seller,
		NFTAddress:    strings.TrimSpace(req.NFTAddress),
		Price:         price,
		Timestamp:     s.now().UnixMilli(),
	}
	purchase.NFTName = s.lookupName(ctx, purchase.NFTAddress)

	if s.random() < s.successRate {
		hash, err := newHash()
		if err != nil {
			return nil, err
		}
		purchase.Status = models.PurchaseCompleted
		purchase.Hash = hash
		purchase.Message = messageCompleted
	} else {
		purchase.Status = models.PurchaseFailed
		purchase.Message = messageFailed
	}

	if err := s.repo.AddPurchase(ctx, purchase); err != nil {
		s.logger.Error("Failed to save purchase", "id", purchase.ID, "error", err)
		return nil, err
	}
	s.metrics.RecordPurchase(purchase.Status)
	s.logger.Info("Purchase simulated", "id", purchase.ID, "buyer", buyer, "seller", seller, "price", price, "status", purchase.Status)

	return purchase, nil
}

// History lists purchases where address was buyer or seller, newest first.
func (s *Service) History(ctx context.Context, address string) ([]*models.Purchase, error) {
	address, err := validation.ValidateAndNormalizeAddress(strings.TrimSpace(address))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidAddress, err)
	}
	return s.repo.GetPurchasesByAddress(ctx, address, historyLimit)
}

func (s *Service) lookupName(ctx context.Context, address string) string {
	if s.catalog == nil || address == "" {
		return ""
	}
	nft, err := s.catalog.GetNFTDetails(ctx, address)
	if err != nil {
		s.logger.Debug("NFT name lookup failed", "address", address, "error", err)
		return ""
	}
	return nft.Name
}

// parsePrice accepts a positive decimal TON amount and formats it with two fraction digits.
func parsePrice(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: price is required", models.ErrInvalidPurchase)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: price %q is not a number", models.ErrInvalidPurchase, raw)
	}
	if !d.IsPositive() {
		return "", fmt.Errorf("%w: price must be positive", models.ErrInvalidPurchase)
	}
	return d.StringFixed(2), nil
}

// newHash returns "0x" followed by 64 hex digits.
func newHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate transaction hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}
