package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"github.com/zildex/zilliqa-nft-marketplace/generated/dic"
	"github.com/zildex/zilliqa-nft-marketplace/internal/config"
	"github.com/zildex/zilliqa-nft-marketplace/internal/helper"
	"github.com/zildex/zilliqa-nft-marketplace/internal/marketplace"
	"github.com/zildex/zilliqa-nft-marketplace/internal/repository"
	"go.uber.org/zap"
)

var (
	container   *dic.Container
	market      marketplace.Marketplace
	listingRepo repository.ListingRepository
	admin       string
)

func main() {
	config.Init("admin")

	container, _ = dic.NewContainer()
	market = container.GetMarket()
	listingRepo = container.GetListingRepo()

	var err error
	admin, err = helper.NormaliseAddress(config.Get().Market.AdminAddress)
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Invalid admin address in config")
	}

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "state",
				Usage:  "Print the current market state",
				Action: printState,
			},
			{
				Name:   "listings",
				Usage:  "Print open listings for a contract",
				Action: printListings,
			},
			{
				Name:   "fee",
				Usage:  "Set the fee rate in tenths of a percent",
				Action: setFeeRate,
			},
			{
				Name:   "pause",
				Usage:  "Halt all state-changing operations",
				Action: pause,
			},
			{
				Name:   "unpause",
				Usage:  "Resume normal operation",
				Action: unpause,
			},
			{
				Name:   "allow",
				Usage:  "Allow a collection for trading",
				Action: allowCollection,
			},
			{
				Name:   "disallow",
				Usage:  "Disallow a collection from trading",
				Action: disallowCollection,
			},
			{
				Name:   "withdraw",
				Usage:  "Withdraw collected fees: withdraw <to> <amount>",
				Action: withdraw,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start CLI")
	}
}

func printState(c *cli.Context) error {
	state := market.State()

	fmt.Printf("feeBps:    %d\n", state.FeeBps)
	fmt.Printf("paused:    %t\n", state.Paused)
	fmt.Printf("feeLedger: %d\n", state.FeeLedger)
	fmt.Printf("allowed:   %v\n", state.AllowedContracts)

	return nil
}

func printListings(c *cli.Context) error {
	contract, err := helper.NormaliseAddress(c.Args().First())
	if err != nil {
		zap.L().Error("No contract provided")
		return err
	}

	size := 25
	page := 1
	for {
		listings, total, err := listingRepo.GetListingsByContract(contract, size, page)
		if err != nil {
			return err
		}
		if page == 1 {
			zap.S().Infof("Found %d listings", total)
		}
		if len(listings) == 0 {
			break
		}

		for _, listing := range listings {
			fmt.Printf("%d: %s @ %d\n", listing.TokenId, listing.Seller, listing.Price)
		}
		page++
	}

	return nil
}

func setFeeRate(c *cli.Context) error {
	bps, err := strconv.ParseUint(c.Args().First(), 10, 32)
	if err != nil {
		zap.L().Error("No fee rate provided")
		return err
	}

	return market.SetFeeRate(uint(bps), admin)
}

func pause(c *cli.Context) error {
	return market.Pause(admin)
}

func unpause(c *cli.Context) error {
	return market.Unpause(admin)
}

func allowCollection(c *cli.Context) error {
	contract, err := helper.NormaliseAddress(c.Args().First())
	if err != nil {
		zap.L().Error("No contract provided")
		return err
	}

	return market.AllowCollection(contract, admin)
}

func disallowCollection(c *cli.Context) error {
	contract, err := helper.NormaliseAddress(c.Args().First())
	if err != nil {
		zap.L().Error("No contract provided")
		return err
	}

	return market.DisallowCollection(contract, admin)
}

func withdraw(c *cli.Context) error {
	to, err := helper.NormaliseAddress(c.Args().First())
	if err != nil {
		zap.L().Error("No recipient provided")
		return err
	}

	amount, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		zap.L().Error("No amount provided")
		return err
	}

	return market.Withdraw(to, amount, admin)
}
