package event

import (
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
	"go.uber.org/zap"
)

var listeners = make([]*Listener, 0)

// Listener receives the committed listing actions emitted for one event
// type. Close stops its goroutine and drops any undelivered actions.
type Listener struct {
	eventType Type
	channel   chan entity.ListingAction
	quit      chan struct{}
}

func AddEventListener(eventType Type, callback func(action entity.ListingAction)) *Listener {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := &Listener{
		eventType: eventType,
		channel:   make(chan entity.ListingAction),
		quit:      make(chan struct{}),
	}

	listeners = append(listeners, listener)

	go func() {
		for {
			select {
			case action := <-listener.channel:
				callback(action)
			case <-listener.quit:
				return
			}
		}
	}()

	return listener
}

func (l *Listener) Close() {
	close(l.quit)
}

func EmitEvent(eventType Type, action entity.ListingAction) {
	if len(listeners) == 0 {
		zap.L().Debug("No event listeners available")
	}
	for _, listener := range listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			go func(l *Listener) {
				select {
				case l.channel <- action:
				case <-l.quit:
				}
			}(listener)
		}
	}
}
