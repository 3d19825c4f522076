package daemon

import (
	"net/http"

	"github.com/zildex/zilliqa-nft-marketplace/internal/api"
	"github.com/zildex/zilliqa-nft-marketplace/internal/config"
	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
	"github.com/zildex/zilliqa-nft-marketplace/internal/marketplace"
	"github.com/zildex/zilliqa-nft-marketplace/internal/repository"
	"go.uber.org/zap"
)

type Daemon struct {
	elastic     elastic_search.Index
	market      marketplace.Marketplace
	stateRepo   repository.MarketStateRepository
	listingRepo repository.ListingRepository
	server      api.Server
}

func NewDaemon(
	elastic elastic_search.Index,
	market marketplace.Marketplace,
	stateRepo repository.MarketStateRepository,
	listingRepo repository.ListingRepository,
	server api.Server,
) *Daemon {
	return &Daemon{elastic, market, stateRepo, listingRepo, server}
}

func (d *Daemon) Execute() {
	d.elastic.InstallMappings()

	if config.Get().Reindex == true {
		zap.L().Info("Reindex complete")
		return
	}

	d.restore()
	d.serve()
}

// restore rebuilds the in-memory registry and policy from the persisted
// market state and open listings.
func (d *Daemon) restore() {
	state, err := d.stateRepo.GetState()
	if err != nil {
		if err != repository.ErrStateNotFound {
			zap.L().With(zap.Error(err)).Fatal("Failed to load market state")
		}

		zap.L().Info("No market state found, starting fresh")
		state = entity.MarketState{FeeBps: config.Get().Market.DefaultFeeBps}
	}

	listings := make([]entity.Listing, 0)
	size := 100
	page := 1
	for {
		batch, _, err := d.listingRepo.GetOpenListings(size, page)
		if err != nil {
			zap.L().With(zap.Error(err)).Fatal("Failed to load listings")
		}
		if len(batch) == 0 {
			break
		}

		listings = append(listings, batch...)
		page++
	}

	d.market.Restore(state, listings)

	zap.L().With(
		zap.Int("listings", len(listings)),
		zap.Uint("feeBps", state.FeeBps),
		zap.Bool("paused", state.Paused),
	).Info("Market state restored")
}

func (d *Daemon) serve() {
	port := config.Get().ApiPort
	zap.L().With(zap.String("port", port)).Info("Marketplace API listening")

	if err := http.ListenAndServe(":"+port, d.server.Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start API server")
	}
}
