package tonapi

import (
	"encoding/json"

	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

// NFTItem is an NFT as returned by TON API. It carries no sale or price data.
type NFTItem struct {
	Address    *string        `json:"address"`
	Index      *int64         `json:"index"`
	Owner      *AccountRef    `json:"owner"`
	Collection *CollectionRef `json:"collection"`
	Metadata   *Metadata      `json:"metadata"`
	Previews   []Preview      `json:"previews"`
}

type AccountRef struct {
	Address *string `json:"address"`
	Name    *string `json:"name"`
}

type CollectionRef struct {
	Address     *string `json:"address"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Metadata is the item's off-chain metadata document.
type Metadata struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Image       *string             `json:"image"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

type MetadataAttribute struct {
	TraitType *string         `json:"trait_type"`
	Value     json.RawMessage `json:"value"`
}

// Preview is a resized image, Resolution looks like "500x500".
type Preview struct {
	Resolution string `json:"resolution"`
	URL        string `json:"url"`
}

// Account is the /accounts/{address} document. Balance is in nanotons.
type Account struct {
	Address     *string     `json:"address"`
	Balance     units.Nano  `json:"balance"`
	Status      *string     `json:"status"`
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Memo        *string     `json:"memo"`
	Owner       *AccountRef `json:"owner"`
}

// items decodes every element on its own so one malformed record
// becomes a nil entry instead of failing the whole page.
type items []*NFTItem

func (it *items) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(items, 0, len(raw))
	for _, r := range raw {
		var item *NFTItem
		if err := json.Unmarshal(r, &item); err != nil {
			item = nil
		}
		out = append(out, item)
	}
	*it = out
	return nil
}

type nftItemsResponse struct {
	NFTItems *items `json:"nft_items"`
}
