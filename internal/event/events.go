package event

type Type string

const (
	ListingCreatedEvent   Type = "ListingCreatedEvent"
	PriceUpdatedEvent     Type = "PriceUpdatedEvent"
	ListingCancelledEvent Type = "ListingCancelledEvent"
	ItemSoldEvent         Type = "ItemSoldEvent"
	FeeWithdrawnEvent     Type = "FeeWithdrawnEvent"
)
