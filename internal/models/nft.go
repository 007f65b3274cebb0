package models

// Attribute is a single trait of an NFT.
type Attribute struct {
	TraitType string `json:"traitType"`
	Value     string `json:"value"`
}

// NFT is the provider-agnostic representation of a single NFT item.
// Records are built once by the normalizer and never mutated afterwards.
type NFT struct {
	// ID is the item address, or a generated token when the provider omitted it.
	// Generated ids are not stable across fetches.
	ID string `json:"id"`
	// Name is the display name of the item.
	Name string `json:"name"`
	// Description is the display description of the item.
	Description string `json:"description"`
	// Price is the sale price in TON with two fraction digits, "0.00" when not on sale.
	Price string `json:"price"`
	// Image is an absolute image URL.
	Image string `json:"image"`
	// CollectionName is a denormalized label, not a reference to a Collection record.
	CollectionName string `json:"collection"`
	// Address is the item address, empty when the provider omitted it.
	Address string `json:"address"`
	// Owner is the current owner address if known.
	Owner *string `json:"owner,omitempty"`
	// SellerAddress is the address a purchase would pay to if known.
	SellerAddress *string `json:"sellerAddress,omitempty"`
	// Attributes keeps the provider's trait order.
	Attributes []Attribute `json:"attributes"`
	// IsOnSale is true only if the provider carried an active sale with a price.
	IsOnSale bool `json:"isOnSale"`
	// ExternalURL points to the item page on the marketplace.
	ExternalURL *string `json:"externalUrl"`
}

// NFTPage is the result of a collection listing.
type NFTPage struct {
	NFTs       []NFT      `json:"nfts"`
	Collection Collection `json:"collection"`
	// Source is the tier that produced NFTs.
	Source Source `json:"-"`
}

// WalletInfo aggregates balance and owned items of a wallet.
type WalletInfo struct {
	Address   string `json:"address"`
	Balance   string `json:"balance"`
	Available bool   `json:"available"`
	NFTs      []NFT  `json:"nfts"`
	NFTCount  int    `json:"nftCount"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
