package models

// PurchaseRequest is the body of a purchase simulation request.
type PurchaseRequest struct {
	BuyerAddress  string `json:"buyerAddress" binding:"required"`
	SellerAddress string `json:"sellerAddress" binding:"required"`
	NFTPrice      string `json:"nftPrice" binding:"required"`
	NFTAddress    string `json:"nftAddress"`
}

// Purchase statuses.
const (
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Purchase is a recorded purchase simulation.
type Purchase struct {
	// ID is the unique identifier of the purchase.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// BuyerAddress is the wallet that initiated the purchase.
	BuyerAddress string `json:"buyerAddress" gorm:"column:buyer_address;index;not null"`
	// SellerAddress is the wallet that would receive the payment.
	SellerAddress string `json:"sellerAddress" gorm:"column:seller_address;index;not null"`
	// NFTAddress is the purchased item, may be empty.
	NFTAddress string `json:"nftAddress" gorm:"column:nft_address"`
	// NFTName is the item name at the time of purchase if it was resolvable.
	NFTName string `json:"nftName" gorm:"column:nft_name"`
	// Price is the price in TON as sent by the client.
	Price string `json:"price" gorm:"column:price;not null"`
	// Status is completed or failed.
	Status string `json:"status" gorm:"column:status;index"`
	// Hash is the simulated transaction hash, empty when failed.
	Hash string `json:"hash" gorm:"column:hash"`
	// Message is the human readable result.
	Message string `json:"message" gorm:"-"`
	// Timestamp is the unix time of the simulation in milliseconds.
	Timestamp int64 `json:"timestamp" gorm:"column:timestamp;index"`
}

// TableName specifies the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// Success reports whether the simulated transaction went through.
func (p *Purchase) Success() bool {
	return p.Status == PurchaseCompleted
}
