// Package normalizer maps provider-native payloads onto the canonical records.
// Every function is total: missing data degrades to placeholders, and a record
// that cannot be mapped at all is reported as nil instead of an error.
package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/getgems"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/tonapi"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

const (
	UnnamedNFT            = "Unnamed NFT"
	NoDescription         = "No description available"
	DefaultCollectionName = "Getgems Collection"

	DefaultCollectionTitle       = "Getgems NFT Collection"
	DefaultCollectionDescription = "NFT collection from Getgems marketplace"
	FallbackCollectionDesc       = "Popular NFT collection on TON blockchain"
	ApproximateItemsCount        = "1000+"

	DefaultPlaceholderImage = "https://via.placeholder.com/300"
	DefaultIPFSGateway      = "ipfs.io"
	DefaultMarketplaceURL   = "https://getgems.io"
)

// Config holds the constants the mapping depends on.
type Config struct {
	// CollectionAddress is the collection the marketplace lists.
	CollectionAddress string
	// MarketplaceURL is the Getgems web origin, used for item links and relative images
	// of both providers.
	MarketplaceURL string
	// IPFSGateway is the host that serves ipfs:// content.
	IPFSGateway string
	// PlaceholderImage is used when an item has no usable image.
	PlaceholderImage string
}

// Normalizer converts provider payloads into canonical records.
type Normalizer struct {
	cfg   Config
	newID func() string
}

// New creates a Normalizer, filling empty config fields with defaults.
func New(cfg Config) *Normalizer {
	if cfg.MarketplaceURL == "" {
		cfg.MarketplaceURL = DefaultMarketplaceURL
	}
	cfg.MarketplaceURL = strings.TrimRight(cfg.MarketplaceURL, "/")
	if cfg.IPFSGateway == "" {
		cfg.IPFSGateway = DefaultIPFSGateway
	}
	if cfg.PlaceholderImage == "" {
		cfg.PlaceholderImage = DefaultPlaceholderImage
	}
	return &Normalizer{cfg: cfg, newID: generateID}
}

// generateID is only used for items without an address. The result differs on every call.
func generateID() string {
	return fmt.Sprintf("nft-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// FromGetgems maps one Getgems node. Returns nil for a nil node.
func (n *Normalizer) FromGetgems(node *getgems.NFTNode) *models.NFT {
	if node == nil {
		return nil
	}

	address := deref(node.Address)
	price, onSale := units.ZeroMajor, false
	if node.Sale != nil && node.Sale.FullPrice.IsSet() {
		if p, err := units.ToMajor(node.Sale.FullPrice); err == nil {
			price, onSale = p, true
		}
	}

	var image string
	if node.Content != nil && node.Content.Image != nil {
		v := node.Content.Image
		image = firstNonEmpty(deref(v.Medium), deref(v.Large), deref(v.Small))
	}

	collectionName, collectionAddress := DefaultCollectionName, n.cfg.CollectionAddress
	if node.Collection != nil {
		collectionName = orDefault(deref(node.Collection.Name), DefaultCollectionName)
		collectionAddress = orDefault(deref(node.Collection.Address), collectionAddress)
	}

	var owner *string
	if node.Owner != nil {
		owner = models.StringPtr(deref(node.Owner.Address))
	}

	attributes := make([]models.Attribute, 0, len(node.Attributes))
	for _, a := range node.Attributes {
		if a.TraitType == nil {
			continue
		}
		attributes = append(attributes, models.Attribute{TraitType: *a.TraitType, Value: rawText(a.Value)})
	}

	return &models.NFT{
		ID:             n.idFor(address),
		Name:           orDefault(deref(node.Name), UnnamedNFT),
		Description:    orDefault(deref(node.Description), NoDescription),
		Price:          price,
		Image:          n.ResolveImage(image, n.cfg.MarketplaceURL),
		CollectionName: collectionName,
		Address:        address,
		Owner:          owner,
		SellerAddress:  models.StringPtr(deref(owner)),
		Attributes:     attributes,
		IsOnSale:       onSale,
		ExternalURL:    n.externalURL(collectionAddress, address),
	}
}

// FromTonAPI maps one TON API item. TON API carries no sale data, so the
// result is never on sale and always priced "0.00".
func (n *Normalizer) FromTonAPI(item *tonapi.NFTItem) *models.NFT {
	if item == nil {
		return nil
	}

	address := deref(item.Address)
	meta := item.Metadata
	if meta == nil {
		meta = &tonapi.Metadata{}
	}

	image := firstNonEmpty(
		previewURL(item.Previews, "500x500"),
		previewURL(item.Previews, "1500x1500"),
		previewURL(item.Previews, "100x100"),
		deref(meta.Image),
	)

	collectionName, collectionAddress := DefaultCollectionName, n.cfg.CollectionAddress
	if item.Collection != nil {
		collectionName = orDefault(deref(item.Collection.Name), DefaultCollectionName)
		collectionAddress = orDefault(deref(item.Collection.Address), collectionAddress)
	}

	var owner *string
	if item.Owner != nil {
		owner = models.StringPtr(deref(item.Owner.Address))
	}

	attributes := make([]models.Attribute, 0, len(meta.Attributes))
	for _, a := range meta.Attributes {
		if a.TraitType == nil {
			continue
		}
		attributes = append(attributes, models.Attribute{TraitType: *a.TraitType, Value: rawText(a.Value)})
	}

	return &models.NFT{
		ID:             n.idFor(address),
		Name:           orDefault(deref(meta.Name), UnnamedNFT),
		Description:    orDefault(deref(meta.Description), NoDescription),
		Price:          units.ZeroMajor,
		Image:          n.ResolveImage(image, n.cfg.MarketplaceURL),
		CollectionName: collectionName,
		Address:        address,
		Owner:          owner,
		SellerAddress:  models.StringPtr(deref(owner)),
		Attributes:     attributes,
		IsOnSale:       false,
		ExternalURL:    n.externalURL(collectionAddress, address),
	}
}

// Getgems maps a batch, dropping records that could not be mapped.
func (n *Normalizer) Getgems(nodes []*getgems.NFTNode) []models.NFT {
	out := make([]models.NFT, 0, len(nodes))
	for _, node := range nodes {
		if nft := safeMap(func() *models.NFT { return n.FromGetgems(node) }); nft != nil {
			out = append(out, *nft)
		}
	}
	return out
}

// TonAPI maps a batch, dropping records that could not be mapped.
func (n *Normalizer) TonAPI(items []*tonapi.NFTItem) []models.NFT {
	out := make([]models.NFT, 0, len(items))
	for _, item := range items {
		if nft := safeMap(func() *models.NFT { return n.FromTonAPI(item) }); nft != nil {
			out = append(out, *nft)
		}
	}
	return out
}

// CollectionFromGetgems maps collection metadata. Returns nil for a nil node.
func (n *Normalizer) CollectionFromGetgems(address string, node *getgems.CollectionNode) *models.Collection {
	if node == nil {
		return nil
	}
	count := models.ParseItemsCount(ApproximateItemsCount)
	if node.ApproximateItemsCount != nil && *node.ApproximateItemsCount >= 0 {
		count = models.ExactCount(*node.ApproximateItemsCount)
	}
	var owner *string
	if node.Owner != nil {
		owner = models.StringPtr(deref(node.Owner.Address))
	}
	return &models.Collection{
		Name:        orDefault(deref(node.Name), DefaultCollectionTitle),
		Description: orDefault(deref(node.Description), DefaultCollectionDescription),
		Address:     orDefault(deref(node.Address), address),
		ItemsCount:  count,
		Owner:       owner,
	}
}

// CollectionFromAccount maps a TON API account document describing a collection.
// TON API has no exact item count; the memo is used when numeric-looking, "1000+" otherwise.
func (n *Normalizer) CollectionFromAccount(address string, account *tonapi.Account) *models.Collection {
	if account == nil {
		return nil
	}
	var owner *string
	if account.Owner != nil {
		owner = models.StringPtr(deref(account.Owner.Address))
	}
	return &models.Collection{
		Name:        orDefault(deref(account.Name), DefaultCollectionTitle),
		Description: orDefault(deref(account.Description), DefaultCollectionDescription),
		Address:     address,
		ItemsCount:  models.ParseItemsCount(orDefault(deref(account.Memo), ApproximateItemsCount)),
		Owner:       owner,
	}
}

// FallbackCollection describes the configured collection without any provider data.
func (n *Normalizer) FallbackCollection() models.Collection {
	return models.Collection{
		Name:        DefaultCollectionTitle,
		Description: FallbackCollectionDesc,
		Address:     n.cfg.CollectionAddress,
		ItemsCount:  models.ParseItemsCount(ApproximateItemsCount),
	}
}

// ResolveImage turns a provider image reference into an absolute URL.
// ipfs:// URIs go through the gateway and root-relative paths are joined to origin.
func (n *Normalizer) ResolveImage(raw, origin string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return n.cfg.PlaceholderImage
	case strings.HasPrefix(raw, "ipfs://"):
		hash := strings.TrimPrefix(strings.TrimPrefix(raw, "ipfs://"), "ipfs/")
		if hash == "" {
			return n.cfg.PlaceholderImage
		}
		return "https://" + n.cfg.IPFSGateway + "/ipfs/" + hash
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		if origin == "" {
			return n.cfg.PlaceholderImage
		}
		return origin + raw
	default:
		return raw
	}
}

func (n *Normalizer) idFor(address string) string {
	if address != "" {
		return address
	}
	return n.newID()
}

func (n *Normalizer) externalURL(collectionAddress, address string) *string {
	if address == "" {
		return nil
	}
	u := n.cfg.MarketplaceURL + "/collection/" + collectionAddress + "/" + address
	return &u
}

// safeMap recovers from a panicking mapping so one record cannot abort a batch.
func safeMap(fn func() *models.NFT) (nft *models.NFT) {
	defer func() {
		if r := recover(); r != nil {
			nft = nil
		}
	}()
	return fn()
}

func previewURL(previews []tonapi.Preview, resolution string) string {
	for _, p := range previews {
		if p.Resolution == resolution && p.URL != "" {
			return p.URL
		}
	}
	return ""
}

// rawText renders a JSON attribute value: strings unquoted, other scalars verbatim.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
