package main

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/zildex/zilliqa-nft-marketplace/generated/dic"
	"github.com/zildex/zilliqa-nft-marketplace/internal/config"
	"go.uber.org/zap"
)

var container *dic.Container

func main() {
	config.Init("marketd")
	defer sentry.Flush(2 * time.Second)

	container, _ = dic.NewContainer()

	// Registers the SQS listeners before the engine starts taking calls.
	container.GetNotifier()

	zap.L().With(zap.String("port", config.Get().ApiPort)).Info("Marketplace Started")

	container.GetDaemon().Execute()
}
