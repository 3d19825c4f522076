package di

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sarulabs/dingo/v4"
	"github.com/zildex/zilliqa-nft-marketplace/internal/api"
	"github.com/zildex/zilliqa-nft-marketplace/internal/config"
	"github.com/zildex/zilliqa-nft-marketplace/internal/custody"
	"github.com/zildex/zilliqa-nft-marketplace/internal/daemon"
	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/helper"
	"github.com/zildex/zilliqa-nft-marketplace/internal/marketplace"
	"github.com/zildex/zilliqa-nft-marketplace/internal/messenger"
	"github.com/zildex/zilliqa-nft-marketplace/internal/payments"
	"github.com/zildex/zilliqa-nft-marketplace/internal/repository"
	"go.uber.org/zap"
)

type Provider struct {
	dingo.BaseProvider
}

func (p *Provider) Load() error {
	return p.AddDefSlice(Definitions)
}

var Definitions = []dingo.Def{
	{
		Name: "elastic",
		Build: func() (elastic_search.Index, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "custody",
		Build: func() (custody.Authority, error) {
			client, err := custody.NewClient(config.Get().Custody.Url, config.Get().Custody.Timeout, config.Get().Custody.Debug)
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to create custody client")
			}

			return custody.NewCustodyService(custody.NewProvider(client)), nil
		},
	},
	{
		Name: "payments",
		Build: func() (payments.Gateway, error) {
			client := retryablehttp.NewClient()
			client.Logger = nil
			client.RetryMax = 3

			return payments.NewGateway(config.Get().Payments.Url, client), nil
		},
	},
	{
		Name: "registry",
		Build: func() (marketplace.Registry, error) {
			return marketplace.NewRegistry(), nil
		},
	},
	{
		Name: "policy",
		Build: func() (*marketplace.Policy, error) {
			return marketplace.NewPolicy(config.Get().Market.DefaultFeeBps), nil
		},
	},
	{
		Name: "market",
		Build: func(
			registry marketplace.Registry,
			policy *marketplace.Policy,
			custodyService custody.Authority,
			paymentGateway payments.Gateway,
			elastic elastic_search.Index,
		) (marketplace.Marketplace, error) {
			admin := mustAddress(config.Get().Market.AdminAddress)
			operator := mustAddress(config.Get().Market.OperatorAddress)
			feeAccount := mustAddress(config.Get().Market.FeeAccount)

			return marketplace.NewEngine(registry, policy, custodyService, paymentGateway, elastic, admin, operator, feeAccount), nil
		},
	},
	{
		Name: "listing.repo",
		Build: func(elastic elastic_search.Index) (repository.ListingRepository, error) {
			return repository.NewListingRepository(elastic), nil
		},
	},
	{
		Name: "action.repo",
		Build: func(elastic elastic_search.Index) (repository.ListingActionRepository, error) {
			return repository.NewListingActionRepository(elastic), nil
		},
	},
	{
		Name: "state.repo",
		Build: func(elastic elastic_search.Index) (repository.MarketStateRepository, error) {
			return repository.NewMarketStateRepository(elastic), nil
		},
	},
	{
		Name: "messenger",
		Build: func() (messenger.MessageService, error) {
			return messenger.NewMessenger(), nil
		},
	},
	{
		Name: "notifier",
		Build: func(messageService messenger.MessageService) (*messenger.Notifier, error) {
			return messenger.NewNotifier(messageService), nil
		},
	},
	{
		Name: "api",
		Build: func(
			market marketplace.Marketplace,
			listingRepo repository.ListingRepository,
			actionRepo repository.ListingActionRepository,
		) (api.Server, error) {
			return api.NewServer(market, listingRepo, actionRepo), nil
		},
	},
	{
		Name: "daemon",
		Build: func(
			elastic elastic_search.Index,
			market marketplace.Marketplace,
			stateRepo repository.MarketStateRepository,
			listingRepo repository.ListingRepository,
			server api.Server,
		) (*daemon.Daemon, error) {
			return daemon.NewDaemon(elastic, market, stateRepo, listingRepo, server), nil
		},
	},
}

func mustAddress(addr string) string {
	normalised, err := helper.NormaliseAddress(addr)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("address", addr)).Fatal("Invalid market address in config")
	}

	return normalised
}
