package entity

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// Listing is the unit of sale state. A listing with no seller and a zero
// price is the sentinel "not listed" value; the registry hands it back for
// absent keys and never stores it.
type Listing struct {
	Contract  string    `json:"contract"`
	TokenId   uint64    `json:"tokenId"`
	Seller    string    `json:"seller"`
	Price     uint64    `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewListing(contract string, tokenId uint64, seller string, price uint64) Listing {
	return Listing{
		Contract:  contract,
		TokenId:   tokenId,
		Seller:    seller,
		Price:     price,
		CreatedAt: time.Now(),
	}
}

// SentinelListing carries the key but no offer.
func SentinelListing(contract string, tokenId uint64) Listing {
	return Listing{Contract: contract, TokenId: tokenId}
}

func (l Listing) Open() bool {
	return l.Seller != "" && l.Price != 0
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.TokenId, l.Contract)
}

func CreateListingSlug(tokenId uint64, contract string) string {
	return slug.Make(fmt.Sprintf("listing-%d-%s", tokenId, contract))
}
