package getgems

import (
	"encoding/json"

	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/units"
)

// NFTNode is an nftItem as returned by the Getgems GraphQL API.
// Every field is optional; the API omits or nulls whatever it does not know.
type NFTNode struct {
	Address     *string         `json:"address"`
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Collection  *CollectionRef  `json:"collection"`
	Owner       *AddressRef     `json:"owner"`
	Sale        *Sale           `json:"sale"`
	Content     *Content        `json:"content"`
	Attributes  []NodeAttribute `json:"attributes"`
}

type CollectionRef struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

type AddressRef struct {
	Address *string `json:"address"`
}

// Sale is an active sale record. FullPrice is in nanotons.
type Sale struct {
	FullPrice units.Nano `json:"fullPrice"`
}

type Content struct {
	Image *ImageVariants `json:"image"`
}

// ImageVariants holds the size variants of an item image.
type ImageVariants struct {
	Small  *string `json:"small"`
	Medium *string `json:"medium"`
	Large  *string `json:"large"`
}

// NodeAttribute keeps the raw value since collections mix strings and numbers.
type NodeAttribute struct {
	TraitType *string         `json:"traitType"`
	Value     json.RawMessage `json:"value"`
}

// CollectionNode is an nftCollection as returned by the Getgems GraphQL API.
type CollectionNode struct {
	Address               *string     `json:"address"`
	Name                  *string     `json:"name"`
	Description           *string     `json:"description"`
	ApproximateItemsCount *int        `json:"approximateItemsCount"`
	Owner                 *AddressRef `json:"owner"`
}

type edge struct {
	Node *NFTNode `json:"node"`
}

// edges decodes every element on its own so one malformed record
// becomes a nil node instead of failing the whole page.
type edges []edge

func (e *edges) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(edges, 0, len(raw))
	for _, r := range raw {
		var item edge
		if err := json.Unmarshal(r, &item); err != nil {
			item = edge{}
		}
		out = append(out, item)
	}
	*e = out
	return nil
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type nftItemsData struct {
	NFTItems *struct {
		Edges edges `json:"edges"`
	} `json:"nftItems"`
}

type nftItemData struct {
	NFTItem *NFTNode `json:"nftItemByAddress"`
}

type collectionData struct {
	Collection *CollectionNode `json:"nftCollectionByAddress"`
}
