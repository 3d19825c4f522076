package marketplace

import (
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

// Registry is the keyed store of offers. It holds no policy: reads of an
// absent key return the sentinel listing and writes are unconditional. The
// engine serializes access; the registry itself takes no locks.
type Registry interface {
	Get(contract string, tokenId uint64) entity.Listing
	Put(listing entity.Listing)
	Clear(contract string, tokenId uint64)
	Open() []entity.Listing
	Load(listings []entity.Listing)
}

type registry struct {
	listings map[string]entity.Listing
}

func NewRegistry() Registry {
	return &registry{listings: make(map[string]entity.Listing)}
}

func (r *registry) Get(contract string, tokenId uint64) entity.Listing {
	if listing, ok := r.listings[entity.CreateListingSlug(tokenId, contract)]; ok {
		return listing
	}

	return entity.SentinelListing(contract, tokenId)
}

func (r *registry) Put(listing entity.Listing) {
	r.listings[listing.Slug()] = listing
}

func (r *registry) Clear(contract string, tokenId uint64) {
	delete(r.listings, entity.CreateListingSlug(tokenId, contract))
}

func (r *registry) Open() []entity.Listing {
	open := make([]entity.Listing, 0, len(r.listings))
	for _, listing := range r.listings {
		if listing.Open() {
			open = append(open, listing)
		}
	}

	return open
}

func (r *registry) Load(listings []entity.Listing) {
	for _, listing := range listings {
		if listing.Open() {
			r.listings[listing.Slug()] = listing
		}
	}
}
