package messenger

import (
	"encoding/json"

	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
	"github.com/zildex/zilliqa-nft-marketplace/internal/event"
	"go.uber.org/zap"
)

// Notifier relays committed marketplace transitions to the SQS queues that
// off-chain observers consume.
type Notifier struct {
	messenger MessageService
	listeners []*event.Listener
}

func NewNotifier(messenger MessageService) *Notifier {
	n := &Notifier{messenger: messenger}

	n.listen(event.ListingCreatedEvent, ListingCreated)
	n.listen(event.PriceUpdatedEvent, PriceUpdated)
	n.listen(event.ListingCancelledEvent, ListingCancelled)
	n.listen(event.ItemSoldEvent, ItemSold)
	n.listen(event.FeeWithdrawnEvent, FeeWithdrawn)

	return n
}

func (n *Notifier) listen(eventType event.Type, item Item) {
	n.listeners = append(n.listeners, event.AddEventListener(eventType, n.publishTo(item)))
}

// Close detaches the notifier from the event bus.
func (n *Notifier) Close() {
	for _, listener := range n.listeners {
		listener.Close()
	}
}

func (n *Notifier) publishTo(item Item) func(action entity.ListingAction) {
	return func(action entity.ListingAction) {
		body, err := json.Marshal(action)
		if err != nil {
			zap.L().With(zap.Error(err)).Error("Notifier: Failed to marshal action")
			return
		}

		if err := n.messenger.SendMessage(item, body); err != nil {
			zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("Notifier: Failed to publish")
		}
	}
}
