package normalizer

import (
	"fmt"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
)

const syntheticSeller = "EQD4FPq-PRDieyQKkizFTRtSDyucUIqrj0v_zXJmqaDp6_0t"

type syntheticItem struct {
	name        string
	description string
	price       string
	onSale      bool
	attributes  []models.Attribute
}

var syntheticItems = []syntheticItem{
	{
		name:        "TON Diamond NFT",
		description: "Rare diamond NFT from TON blockchain",
		price:       "0.50",
		onSale:      true,
		attributes: []models.Attribute{
			{TraitType: "Rarity", Value: "Legendary"},
			{TraitType: "Background", Value: "Blue"},
		},
	},
	{
		name:        "CryptoPunk TON Edition",
		description: "Exclusive CryptoPunk on TON network",
		price:       "1.20",
		onSale:      true,
		attributes: []models.Attribute{
			{TraitType: "Type", Value: "Alien"},
			{TraitType: "Accessory", Value: "Cap"},
		},
	},
	{
		name:        "Digital Art #001",
		description: "Beautiful digital artwork",
		price:       "0.80",
		onSale:      false,
		attributes: []models.Attribute{
			{TraitType: "Style", Value: "Abstract"},
			{TraitType: "Colors", Value: "Vibrant"},
		},
	},
}

// SyntheticNFTs returns the fixed demo listing served when every provider fails.
// The result is freshly allocated on every call.
func (n *Normalizer) SyntheticNFTs() []models.NFT {
	out := make([]models.NFT, 0, len(syntheticItems))
	for i, item := range syntheticItems {
		id := fmt.Sprintf("mock-%d", i+1)
		address := fmt.Sprintf("EQCk3...mock%d", i+1)
		attributes := make([]models.Attribute, len(item.attributes))
		copy(attributes, item.attributes)

		out = append(out, models.NFT{
			ID:             id,
			Name:           item.name,
			Description:    item.description,
			Price:          item.price,
			Image:          fmt.Sprintf("https://picsum.photos/300/300?random=%d", i+1),
			CollectionName: DefaultCollectionName,
			Address:        address,
			Owner:          models.StringPtr(syntheticSeller),
			SellerAddress:  models.StringPtr(syntheticSeller),
			Attributes:     attributes,
			IsOnSale:       item.onSale,
			ExternalURL:    n.externalURL(n.cfg.CollectionAddress, address),
		})
	}
	return out
}
