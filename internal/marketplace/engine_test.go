package marketplace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

const (
	testAdmin      = "0x0000000000000000000000000000000000000ad1"
	testOperator   = "0x00000000000000000000000000000000000000fa"
	testFeeAccount = "0x00000000000000000000000000000000000000fe"
	testContract   = "0xa0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9"
	testSeller     = "0x1111111111111111111111111111111111111111"
	testBuyer      = "0x2222222222222222222222222222222222222222"
	testStranger   = "0x3333333333333333333333333333333333333333"
)

func newTestMarket(t *testing.T) (Marketplace, *fakeCustody, *fakePayments, *fakeIndex) {
	t.Helper()

	custodyFake := newFakeCustody()
	paymentsFake := &fakePayments{}
	index := newFakeIndex()

	market := NewEngine(NewRegistry(), NewPolicy(50), custodyFake, paymentsFake, index, testAdmin, testOperator, testFeeAccount)
	assert.NoError(t, market.AllowCollection(testContract, testAdmin))

	custodyFake.owners[tokenKey(testContract, 1)] = testSeller
	custodyFake.operators[tokenKey(testContract, 1)] = testOperator

	return market, custodyFake, paymentsFake, index
}

func TestListItem(t *testing.T) {
	market, _, _, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	listing := market.GetListing(testContract, 1)
	assert.True(t, listing.Open())
	assert.Equal(t, testSeller, listing.Seller)
	assert.Equal(t, uint64(1000), listing.Price)

	action := index.lastAction()
	assert.NotNil(t, action)
	assert.Equal(t, entity.ListedAction, action.Action)
	assert.Equal(t, uint64(1000), action.Price)
}

func TestListItem_AlreadyListed(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.ErrorIs(t, market.ListItem(testContract, 1, 2000, testSeller), ErrAlreadyListed)

	assert.Equal(t, uint64(1000), market.GetListing(testContract, 1).Price)
}

func TestListItem_NotTradeable(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	other := "0x9999999999999999999999999999999999999999"
	custodyFake.owners[tokenKey(other, 1)] = testSeller

	assert.ErrorIs(t, market.ListItem(other, 1, 1000, testSeller), ErrNotTradeable)
}

func TestListItem_InvalidPrice(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.ListItem(testContract, 1, 0, testSeller), ErrInvalidPrice)
	assert.ErrorIs(t, market.ListItem(testContract, 1, maxPrice+1, testSeller), ErrInvalidPrice)
	assert.NoError(t, market.ListItem(testContract, 1, maxPrice, testSeller))
}

// Entitlement is judged before the price: a non-owner with a bad price is
// told about the ownership problem.
func TestEntitlementCheckedBeforePrice(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.ListItem(testContract, 1, 0, testStranger), ErrNotOwner)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.ErrorIs(t, market.UpdateListingPrice(testContract, 1, 0, testStranger), ErrNotOwner)
}

func TestListItem_NotOwner(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.ListItem(testContract, 1, 1000, testStranger), ErrNotOwner)
	assert.False(t, market.GetListing(testContract, 1).Open())
}

func TestListItem_NotApproved(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	delete(custodyFake.operators, tokenKey(testContract, 1))

	assert.ErrorIs(t, market.ListItem(testContract, 1, 1000, testSeller), ErrNotApproved)
}

func TestListItem_BlanketApproval(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	delete(custodyFake.operators, tokenKey(testContract, 1))
	custodyFake.blanket[testSeller+":"+testOperator] = true

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
}

func TestUpdateListingPrice(t *testing.T) {
	market, _, _, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.UpdateListingPrice(testContract, 1, 2500, testSeller))

	listing := market.GetListing(testContract, 1)
	assert.Equal(t, uint64(2500), listing.Price)
	assert.Equal(t, testSeller, listing.Seller)

	action := index.lastAction()
	assert.Equal(t, entity.PriceUpdatedAction, action.Action)
	assert.Equal(t, uint64(2500), action.Price)
}

func TestUpdateListingPrice_NotListed(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.UpdateListingPrice(testContract, 1, 2500, testSeller), ErrNotListed)
}

func TestUpdateListingPrice_InvalidPrice(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.ErrorIs(t, market.UpdateListingPrice(testContract, 1, 0, testSeller), ErrInvalidPrice)
	assert.Equal(t, uint64(1000), market.GetListing(testContract, 1).Price)
}

// A reprice is gated by current entitlement, not by the stored seller: a new
// owner with a live approval may change the price, and the stored seller is
// preserved on the listing.
func TestUpdateListingPrice_NewOwnerMayReprice(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	custodyFake.owners[tokenKey(testContract, 1)] = testStranger
	custodyFake.operators[tokenKey(testContract, 1)] = testOperator

	assert.NoError(t, market.UpdateListingPrice(testContract, 1, 500, testStranger))

	listing := market.GetListing(testContract, 1)
	assert.Equal(t, uint64(500), listing.Price)
	assert.Equal(t, testSeller, listing.Seller)

	// The old seller no longer owns the item and cannot reprice.
	assert.ErrorIs(t, market.UpdateListingPrice(testContract, 1, 900, testSeller), ErrNotOwner)
}

func TestCancelListing(t *testing.T) {
	market, _, _, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.CancelListing(testContract, 1, testSeller))

	assert.False(t, market.GetListing(testContract, 1).Open())
	assert.Equal(t, entity.DelistedAction, index.lastAction().Action)
}

func TestCancelListing_NotListed(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.CancelListing(testContract, 1, testSeller), ErrNotListed)
}

// Cancellation is gated by the stored seller, unlike a reprice: even the
// current owner cannot cancel somebody else's offer.
func TestCancelListing_NotSeller(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	custodyFake.owners[tokenKey(testContract, 1)] = testStranger

	assert.ErrorIs(t, market.CancelListing(testContract, 1, testStranger), ErrNotSeller)
	assert.True(t, market.GetListing(testContract, 1).Open())
}

func TestBuyItem(t *testing.T) {
	market, custodyFake, paymentsFake, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))

	// Asset moved to the buyer.
	owner, err := custodyFake.OwnerOf(testContract, 1)
	assert.NoError(t, err)
	assert.Equal(t, testBuyer, owner)

	// Seller received price minus the 5% fee; the fee stayed in the ledger.
	assert.Equal(t, []paymentRecord{{testSeller, 950}}, paymentsFake.payments)
	assert.Equal(t, uint64(50), market.State().FeeLedger)

	// Offer is gone.
	assert.False(t, market.GetListing(testContract, 1).Open())

	action := index.lastAction()
	assert.Equal(t, entity.SoldAction, action.Action)
	assert.Equal(t, testSeller, action.From)
	assert.Equal(t, testBuyer, action.To)
	assert.Equal(t, uint64(50), action.Fee)
}

func TestBuyItem_FeeRoundsDown(t *testing.T) {
	market, _, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.SetFeeRate(33, testAdmin))
	assert.NoError(t, market.ListItem(testContract, 1, 101, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 101))

	// 101 * 33 / 1000 = 3.333 rounds down to 3.
	assert.Equal(t, uint64(3), market.State().FeeLedger)
	assert.Equal(t, []paymentRecord{{testSeller, 98}}, paymentsFake.payments)
}

func TestBuyItem_ZeroFee(t *testing.T) {
	market, _, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.SetFeeRate(0, testAdmin))
	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))

	assert.Equal(t, uint64(0), market.State().FeeLedger)
	assert.Equal(t, []paymentRecord{{testSeller, 1000}}, paymentsFake.payments)
}

func TestBuyItem_NotListed(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrNotListed)
}

func TestBuyItem_InexactPayment(t *testing.T) {
	market, custodyFake, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 999), ErrInsufficientPayment)
	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1001), ErrInsufficientPayment)

	// Nothing moved.
	owner, _ := custodyFake.OwnerOf(testContract, 1)
	assert.Equal(t, testSeller, owner)
	assert.Empty(t, paymentsFake.payments)
	assert.True(t, market.GetListing(testContract, 1).Open())
}

func TestBuyItem_SellerNoLongerOwns(t *testing.T) {
	market, custodyFake, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	// Seller moved the item outside the marketplace after listing.
	custodyFake.owners[tokenKey(testContract, 1)] = testStranger

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrNotOwner)
	assert.Empty(t, paymentsFake.payments)
	assert.True(t, market.GetListing(testContract, 1).Open())
}

func TestBuyItem_ApprovalRevoked(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	delete(custodyFake.operators, tokenKey(testContract, 1))

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrNotApproved)
	assert.True(t, market.GetListing(testContract, 1).Open())
}

func TestBuyItem_AssetTransferFails(t *testing.T) {
	market, custodyFake, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	custodyFake.transferErr = errors.New("rpc gone away")

	assert.Error(t, market.BuyItem(testContract, 1, testBuyer, 1000))

	// No money moved and the offer survived.
	assert.Empty(t, paymentsFake.payments)
	assert.True(t, market.GetListing(testContract, 1).Open())
	assert.Equal(t, uint64(0), market.State().FeeLedger)
}

func TestBuyItem_PayoutFailsCompensates(t *testing.T) {
	market, custodyFake, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	paymentsFake.payErr = errors.New("gateway rejected")

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrTransferFailed)

	// The asset went out and came back.
	assert.Equal(t, []transferRecord{
		{testSeller, testBuyer, testContract, 1},
		{testBuyer, testSeller, testContract, 1},
	}, custodyFake.transfers)

	owner, _ := custodyFake.OwnerOf(testContract, 1)
	assert.Equal(t, testSeller, owner)

	// Offer and ledger untouched.
	assert.True(t, market.GetListing(testContract, 1).Open())
	assert.Equal(t, uint64(0), market.State().FeeLedger)
}

func TestBuyItem_CompensationFailureRecorded(t *testing.T) {
	market, custodyFake, paymentsFake, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))

	// Forward transfer succeeds, payout fails, the reversal fails too.
	paymentsFake.payErr = errors.New("gateway rejected")
	custodyFake.failTransferAt = 2

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrTransferFailed)

	// An error document was raised and flushed for the stuck reversal.
	var errorDoc bool
	for _, req := range index.persisted {
		if req.Action == elastic_search.DevErrorCreate {
			errorDoc = true
		}
	}
	assert.True(t, errorDoc)
	assert.Empty(t, index.GetRequests())

	// The offer survives even though ownership is stranded with the buyer.
	assert.True(t, market.GetListing(testContract, 1).Open())
}

// Every committed mutation flushes its audit document immediately: a single
// action must never sit in the pending buffer waiting for a batch threshold
// it will not reach.
func TestAuditTrailFlushedPerMutation(t *testing.T) {
	market, _, paymentsFake, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.Empty(t, index.GetRequests())
	assert.Equal(t, 1, index.persistCalls)

	assert.NoError(t, market.UpdateListingPrice(testContract, 1, 2000, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 2000))
	paymentsFake.balance = 100
	assert.NoError(t, market.Withdraw(testAdmin, 10, testAdmin))

	assert.Empty(t, index.GetRequests())
	assert.Equal(t, 4, index.persistCalls)

	var actions []entity.ActionType
	for _, req := range index.persisted {
		if action, ok := req.Entity.(entity.ListingAction); ok {
			actions = append(actions, action.Action)
		}
	}
	assert.Equal(t, []entity.ActionType{
		entity.ListedAction,
		entity.PriceUpdatedAction,
		entity.SoldAction,
		entity.FeeWithdrawnAction,
	}, actions)
}

func TestPauseBlocksTrading(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.Pause(testAdmin))

	assert.ErrorIs(t, market.ListItem(testContract, 2, 1000, testSeller), ErrSystemPaused)
	assert.ErrorIs(t, market.UpdateListingPrice(testContract, 1, 500, testSeller), ErrSystemPaused)
	assert.ErrorIs(t, market.CancelListing(testContract, 1, testSeller), ErrSystemPaused)
	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrSystemPaused)

	// Listings survive a pause; trading resumes on unpause.
	assert.NoError(t, market.Unpause(testAdmin))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))
}

func TestDisallowBlocksNewListings(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.DisallowCollection(testContract, testAdmin))

	assert.ErrorIs(t, market.BuyItem(testContract, 1, testBuyer, 1000), ErrNotTradeable)

	assert.NoError(t, market.AllowCollection(testContract, testAdmin))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))
}

func TestSetFeeRate(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.NoError(t, market.SetFeeRate(999, testAdmin))
	assert.Equal(t, uint(999), market.State().FeeBps)

	assert.ErrorIs(t, market.SetFeeRate(1000, testAdmin), ErrFeeTooHigh)
	assert.Equal(t, uint(999), market.State().FeeBps)

	assert.ErrorIs(t, market.SetFeeRate(10, testStranger), ErrNotAdmin)
}

func TestAdminOnly(t *testing.T) {
	market, _, _, _ := newTestMarket(t)

	assert.ErrorIs(t, market.Pause(testStranger), ErrNotAdmin)
	assert.ErrorIs(t, market.Unpause(testStranger), ErrNotAdmin)
	assert.ErrorIs(t, market.AllowCollection(testContract, testStranger), ErrNotAdmin)
	assert.ErrorIs(t, market.DisallowCollection(testContract, testStranger), ErrNotAdmin)
	assert.ErrorIs(t, market.Withdraw(testStranger, 1, testStranger), ErrNotAdmin)
}

func TestWithdraw(t *testing.T) {
	market, _, paymentsFake, index := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))
	assert.Equal(t, uint64(50), market.State().FeeLedger)

	paymentsFake.balance = 50

	assert.NoError(t, market.Withdraw(testAdmin, 30, testAdmin))
	assert.Equal(t, uint64(20), market.State().FeeLedger)
	assert.Equal(t, paymentRecord{testAdmin, 30}, paymentsFake.payments[len(paymentsFake.payments)-1])

	action := index.lastAction()
	assert.Equal(t, entity.FeeWithdrawnAction, action.Action)
	assert.Equal(t, uint64(30), action.Fee)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	market, _, paymentsFake, _ := newTestMarket(t)

	paymentsFake.balance = 1000

	assert.ErrorIs(t, market.Withdraw(testAdmin, 1, testAdmin), ErrInsufficientFunds)
}

func TestWithdraw_Insolvent(t *testing.T) {
	market, _, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))

	// The account holds less than the ledger claims.
	paymentsFake.balance = 10

	assert.ErrorIs(t, market.Withdraw(testAdmin, 10, testAdmin), ErrInsolvent)
	assert.Equal(t, uint64(50), market.State().FeeLedger)
}

func TestWithdraw_PayoutFailureRestoresLedger(t *testing.T) {
	market, _, paymentsFake, _ := newTestMarket(t)

	assert.NoError(t, market.ListItem(testContract, 1, 1000, testSeller))
	assert.NoError(t, market.BuyItem(testContract, 1, testBuyer, 1000))

	paymentsFake.balance = 50
	paymentsFake.payErr = errors.New("gateway rejected")

	assert.ErrorIs(t, market.Withdraw(testAdmin, 30, testAdmin), ErrWithdrawFailed)
	assert.Equal(t, uint64(50), market.State().FeeLedger)
}

func TestRestore(t *testing.T) {
	market, custodyFake, _, _ := newTestMarket(t)

	custodyFake.owners[tokenKey(testContract, 7)] = testSeller
	custodyFake.operators[tokenKey(testContract, 7)] = testOperator

	market.Restore(entity.MarketState{
		FeeBps:           75,
		Paused:           false,
		FeeLedger:        123,
		AllowedContracts: []string{testContract},
	}, []entity.Listing{
		entity.NewListing(testContract, 7, testSeller, 4000),
		entity.SentinelListing(testContract, 8),
	})

	state := market.State()
	assert.Equal(t, uint(75), state.FeeBps)
	assert.Equal(t, uint64(123), state.FeeLedger)
	assert.Equal(t, []string{testContract}, state.AllowedContracts)

	assert.True(t, market.GetListing(testContract, 7).Open())
	assert.False(t, market.GetListing(testContract, 8).Open())
}
