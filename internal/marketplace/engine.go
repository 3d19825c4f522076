package marketplace

import (
	"math"
	"sync"

	"github.com/zildex/zilliqa-nft-marketplace/internal/custody"
	"github.com/zildex/zilliqa-nft-marketplace/internal/dev"
	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
	"github.com/zildex/zilliqa-nft-marketplace/internal/event"
	"github.com/zildex/zilliqa-nft-marketplace/internal/factory"
	"github.com/zildex/zilliqa-nft-marketplace/internal/payments"
	"go.uber.org/zap"
)

// Prices above this would overflow the fee computation.
const maxPrice = math.MaxUint64 / 1000

type Marketplace interface {
	GetListing(contract string, tokenId uint64) entity.Listing

	ListItem(contract string, tokenId uint64, price uint64, caller string) error
	UpdateListingPrice(contract string, tokenId uint64, newPrice uint64, caller string) error
	CancelListing(contract string, tokenId uint64, caller string) error
	BuyItem(contract string, tokenId uint64, caller string, paid uint64) error

	SetFeeRate(bps uint, caller string) error
	AllowCollection(contract, caller string) error
	DisallowCollection(contract, caller string) error
	Pause(caller string) error
	Unpause(caller string) error
	Withdraw(to string, amount uint64, caller string) error

	State() entity.MarketState
	Restore(state entity.MarketState, listings []entity.Listing)
}

type engine struct {
	// mu serializes every public operation; it is also the reentrancy
	// guard since all local state is read and written inside it.
	mu sync.Mutex

	registry Registry
	policy   *Policy
	custody  custody.Authority
	payments payments.Gateway
	elastic  elastic_search.Index

	admin      string
	operator   string
	feeAccount string
	feeLedger  uint64
}

func NewEngine(
	registry Registry,
	policy *Policy,
	custodyService custody.Authority,
	paymentGateway payments.Gateway,
	elastic elastic_search.Index,
	admin string,
	operator string,
	feeAccount string,
) Marketplace {
	return &engine{
		registry:   registry,
		policy:     policy,
		custody:    custodyService,
		payments:   paymentGateway,
		elastic:    elastic,
		admin:      admin,
		operator:   operator,
		feeAccount: feeAccount,
	}
}

func (e *engine) GetListing(contract string, tokenId uint64) entity.Listing {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.Get(contract, tokenId)
}

func (e *engine) ListItem(contract string, tokenId uint64, price uint64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tradeable(contract); err != nil {
		return err
	}

	if e.registry.Get(contract, tokenId).Open() {
		return ErrAlreadyListed
	}

	if err := e.checkEntitlement(contract, tokenId, caller); err != nil {
		return err
	}

	if price == 0 || price > maxPrice {
		return ErrInvalidPrice
	}

	listing := entity.NewListing(contract, tokenId, caller, price)
	e.registry.Put(listing)

	e.elastic.Save(elastic_search.ListingIndex.Get(), listing)
	e.audit(factory.CreateListedAction(listing), event.ListingCreatedEvent)

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("seller", caller),
		zap.Uint64("price", price),
	).Info("Marketplace: Item listed")

	return nil
}

func (e *engine) UpdateListingPrice(contract string, tokenId uint64, newPrice uint64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tradeable(contract); err != nil {
		return err
	}

	listing := e.registry.Get(contract, tokenId)
	if !listing.Open() {
		return ErrNotListed
	}

	// Entitlement, not the stored seller, gates a reprice: any current
	// owner with a live approval may change the price.
	if err := e.checkEntitlement(contract, tokenId, caller); err != nil {
		return err
	}

	if newPrice == 0 || newPrice > maxPrice {
		return ErrInvalidPrice
	}

	listing = entity.NewListing(contract, tokenId, listing.Seller, newPrice)
	e.registry.Put(listing)

	e.elastic.Save(elastic_search.ListingIndex.Get(), listing)
	e.audit(factory.CreatePriceUpdatedAction(listing, caller), event.PriceUpdatedEvent)

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.Uint64("price", newPrice),
	).Info("Marketplace: Price updated")

	return nil
}

func (e *engine) CancelListing(contract string, tokenId uint64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tradeable(contract); err != nil {
		return err
	}

	listing := e.registry.Get(contract, tokenId)
	if !listing.Open() {
		return ErrNotListed
	}

	if listing.Seller != caller {
		return ErrNotSeller
	}

	e.registry.Clear(contract, tokenId)

	e.elastic.Save(elastic_search.ListingIndex.Get(), entity.SentinelListing(contract, tokenId))
	e.audit(factory.CreateDelistedAction(listing), event.ListingCancelledEvent)

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
	).Info("Marketplace: Listing cancelled")

	return nil
}

func (e *engine) BuyItem(contract string, tokenId uint64, caller string, paid uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tradeable(contract); err != nil {
		return err
	}

	listing := e.registry.Get(contract, tokenId)
	if !listing.Open() {
		return ErrNotListed
	}

	// Exact match: overpayment is rejected, not refunded.
	if paid != listing.Price {
		return ErrInsufficientPayment
	}

	// Entitlement is re-checked against the listing-time seller, never
	// trusted from creation: the seller may have transferred the item or
	// revoked the approval since listing.
	if err := e.checkEntitlement(contract, tokenId, listing.Seller); err != nil {
		return err
	}

	fee := listing.Price * uint64(e.policy.FeeBps()) / 1000
	proceeds := listing.Price - fee

	if err := e.custody.Transfer(listing.Seller, caller, contract, tokenId); err != nil {
		zap.L().With(zap.Error(err), zap.String("contract", contract), zap.Uint64("tokenId", tokenId)).
			Warn("Marketplace: Asset transfer failed")
		return err
	}

	if err := e.payments.Pay(listing.Seller, proceeds); err != nil {
		e.compensate(listing, caller)
		return ErrTransferFailed
	}

	e.feeLedger += fee
	e.registry.Clear(contract, tokenId)

	e.elastic.Save(elastic_search.ListingIndex.Get(), entity.SentinelListing(contract, tokenId))
	e.elastic.Save(elastic_search.MarketStateIndex.Get(), e.state())
	e.audit(factory.CreateSoldAction(listing, caller, fee), event.ItemSoldEvent)

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("seller", listing.Seller),
		zap.String("buyer", caller),
		zap.Uint64("price", listing.Price),
		zap.Uint64("fee", fee),
	).Info("Marketplace: Item sold")

	return nil
}

// compensate reverses the custody transfer after a failed seller payout so
// the aborted purchase leaves ownership where it started.
func (e *engine) compensate(listing entity.Listing, buyer string) {
	err := e.custody.Transfer(buyer, listing.Seller, listing.Contract, listing.TokenId)
	if err == nil {
		return
	}

	zap.L().With(
		zap.Error(err),
		zap.String("contract", listing.Contract),
		zap.Uint64("tokenId", listing.TokenId),
	).Error("Marketplace: Compensating transfer failed")

	e.elastic.AddIndexRequest(elastic_search.ErrorIndex.Get(), dev.NewError("marketplace", "compensate", err, map[string]interface{}{
		"contract": listing.Contract,
		"tokenId":  listing.TokenId,
		"seller":   listing.Seller,
		"buyer":    buyer,
	}), elastic_search.DevErrorCreate)
	e.elastic.Persist()
}

func (e *engine) SetFeeRate(bps uint, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	if err := e.policy.SetFeeBps(bps); err != nil {
		return err
	}
	e.persistState()

	zap.L().With(zap.Uint("feeBps", bps)).Info("Marketplace: Fee rate updated")

	return nil
}

func (e *engine) AllowCollection(contract, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	e.policy.Allow(contract)
	e.persistState()

	zap.L().With(zap.String("contract", contract)).Info("Marketplace: Collection allowed")

	return nil
}

func (e *engine) DisallowCollection(contract, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	e.policy.Disallow(contract)
	e.persistState()

	zap.L().With(zap.String("contract", contract)).Info("Marketplace: Collection disallowed")

	return nil
}

func (e *engine) Pause(caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	e.policy.Pause()
	e.persistState()

	zap.L().Warn("Marketplace: Paused")

	return nil
}

func (e *engine) Unpause(caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	e.policy.Unpause()
	e.persistState()

	zap.L().Info("Marketplace: Unpaused")

	return nil
}

func (e *engine) Withdraw(to string, amount uint64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	if amount > e.feeLedger {
		return ErrInsufficientFunds
	}

	// Accounting conservatism: the ledger must never claim more than the
	// account actually holds, regardless of prior bookkeeping.
	balance, err := e.payments.Balance(e.feeAccount)
	if err != nil {
		return err
	}
	if e.feeLedger > balance {
		zap.L().With(zap.Uint64("ledger", e.feeLedger), zap.Uint64("balance", balance)).
			Error("Marketplace: Fee ledger exceeds held balance")
		return ErrInsolvent
	}

	e.feeLedger -= amount
	if err := e.payments.Pay(to, amount); err != nil {
		e.feeLedger += amount
		return ErrWithdrawFailed
	}

	e.persistState()
	e.audit(factory.CreateFeeWithdrawnAction(to, amount), event.FeeWithdrawnEvent)

	zap.L().With(zap.String("to", to), zap.Uint64("amount", amount)).Info("Marketplace: Fees withdrawn")

	return nil
}

func (e *engine) State() entity.MarketState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state()
}

func (e *engine) Restore(state entity.MarketState, listings []entity.Listing) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.policy.Restore(state)
	e.feeLedger = state.FeeLedger
	e.registry.Load(listings)
}

func (e *engine) state() entity.MarketState {
	return entity.MarketState{
		FeeBps:           e.policy.FeeBps(),
		Paused:           e.policy.Paused(),
		FeeLedger:        e.feeLedger,
		AllowedContracts: e.policy.AllowedContracts(),
	}
}

func (e *engine) persistState() {
	e.elastic.Save(elastic_search.MarketStateIndex.Get(), e.state())
}

// audit writes the action document before the event goes out: a single
// pending request would otherwise sit unflushed in the write-behind buffer.
func (e *engine) audit(action entity.ListingAction, eventType event.Type) {
	e.elastic.AddIndexRequest(elastic_search.ListingActionIndex.Get(), action, elastic_search.ListingActionCreate)
	e.elastic.Persist()

	event.EmitEvent(eventType, action)
}

func (e *engine) tradeable(contract string) error {
	if e.policy.Paused() {
		return ErrSystemPaused
	}
	if !e.policy.Allowed(contract) {
		return ErrNotTradeable
	}

	return nil
}

func (e *engine) requireAdmin(caller string) error {
	if caller != e.admin {
		return ErrNotAdmin
	}

	return nil
}

// checkEntitlement verifies that claimedOwner currently owns the item and
// that the marketplace can move it, either through a per-item operator
// approval or a blanket approval from the owner.
func (e *engine) checkEntitlement(contract string, tokenId uint64, claimedOwner string) error {
	owner, err := e.custody.OwnerOf(contract, tokenId)
	if err != nil {
		return err
	}
	if owner != claimedOwner {
		return ErrNotOwner
	}

	approved, err := e.custody.IsApprovedOperator(contract, tokenId, e.operator)
	if err != nil {
		return err
	}
	if approved {
		return nil
	}

	blanket, err := e.custody.IsApprovedForAll(owner, e.operator)
	if err != nil {
		return err
	}
	if !blanket {
		return ErrNotApproved
	}

	return nil
}
