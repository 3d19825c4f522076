package factory

import (
	"time"

	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

func CreateListedAction(listing entity.Listing) entity.ListingAction {
	return entity.ListingAction{
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Action:   entity.ListedAction,
		From:     listing.Seller,
		Price:    listing.Price,
		Time:     time.Now(),
	}
}

func CreatePriceUpdatedAction(listing entity.Listing, caller string) entity.ListingAction {
	return entity.ListingAction{
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Action:   entity.PriceUpdatedAction,
		From:     caller,
		Price:    listing.Price,
		Time:     time.Now(),
	}
}

func CreateDelistedAction(listing entity.Listing) entity.ListingAction {
	return entity.ListingAction{
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Action:   entity.DelistedAction,
		From:     listing.Seller,
		Time:     time.Now(),
	}
}

func CreateSoldAction(listing entity.Listing, buyer string, fee uint64) entity.ListingAction {
	return entity.ListingAction{
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Action:   entity.SoldAction,
		From:     listing.Seller,
		To:       buyer,
		Price:    listing.Price,
		Fee:      fee,
		Time:     time.Now(),
	}
}

func CreateFeeWithdrawnAction(to string, amount uint64) entity.ListingAction {
	return entity.ListingAction{
		Action: entity.FeeWithdrawnAction,
		To:     to,
		Fee:    amount,
		Time:   time.Now(),
	}
}
