package entity

import (
	"crypto/md5"
	"fmt"
	"time"
)

// ListingAction is the audit record written for every committed state
// transition, one document per transition.
type ListingAction struct {
	Contract string     `json:"contract"`
	TokenId  uint64     `json:"tokenId"`
	Action   ActionType `json:"action"`
	From     string     `json:"from"`
	To       string     `json:"to"`
	Price    uint64     `json:"price"`
	Fee      uint64     `json:"fee"`
	Time     time.Time  `json:"time"`
}

type ActionType string

const (
	ListedAction       ActionType = "listed"
	PriceUpdatedAction ActionType = "price_updated"
	DelistedAction     ActionType = "delisted"
	SoldAction         ActionType = "sold"
	FeeWithdrawnAction ActionType = "fee_withdrawn"
)

func (a ListingAction) Slug() string {
	return CreateListingActionSlug(a.TokenId, a.Contract, string(a.Action), a.Time.UnixNano())
}

func CreateListingActionSlug(tokenId uint64, contract, action string, nanos int64) string {
	data := []byte(fmt.Sprintf("listingaction-%d-%s-%s-%d", tokenId, contract, action, nanos))
	return fmt.Sprintf("%x", md5.Sum(data))
}
