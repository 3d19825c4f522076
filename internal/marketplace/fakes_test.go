package marketplace

import (
	"errors"
	"fmt"

	"github.com/olivere/elastic/v7"
	"github.com/zildex/zilliqa-nft-marketplace/internal/elastic_search"
	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

type transferRecord struct {
	From     string
	To       string
	Contract string
	TokenId  uint64
}

type fakeCustody struct {
	owners    map[string]string
	operators map[string]string
	blanket   map[string]bool

	transferErr    error
	failTransferAt int // fail the nth Transfer call and every one after; 0 disables
	transferCalls  int
	transfers      []transferRecord
}

func newFakeCustody() *fakeCustody {
	return &fakeCustody{
		owners:    make(map[string]string),
		operators: make(map[string]string),
		blanket:   make(map[string]bool),
	}
}

func tokenKey(contract string, tokenId uint64) string {
	return fmt.Sprintf("%s-%d", contract, tokenId)
}

func (c *fakeCustody) OwnerOf(contract string, tokenId uint64) (string, error) {
	owner, ok := c.owners[tokenKey(contract, tokenId)]
	if !ok {
		return "", errors.New("token not found")
	}

	return owner, nil
}

func (c *fakeCustody) IsApprovedOperator(contract string, tokenId uint64, operator string) (bool, error) {
	return c.operators[tokenKey(contract, tokenId)] == operator, nil
}

func (c *fakeCustody) IsApprovedForAll(owner, operator string) (bool, error) {
	return c.blanket[owner+":"+operator], nil
}

func (c *fakeCustody) Transfer(from, to, contract string, tokenId uint64) error {
	c.transferCalls++
	if c.transferErr != nil {
		return c.transferErr
	}
	if c.failTransferAt != 0 && c.transferCalls >= c.failTransferAt {
		return errors.New("transfer rejected")
	}

	c.owners[tokenKey(contract, tokenId)] = to
	delete(c.operators, tokenKey(contract, tokenId))
	c.transfers = append(c.transfers, transferRecord{from, to, contract, tokenId})

	return nil
}

type paymentRecord struct {
	To     string
	Amount uint64
}

type fakePayments struct {
	payErr   error
	payments []paymentRecord

	balance    uint64
	balanceErr error
}

func (p *fakePayments) Pay(to string, amount uint64) error {
	if p.payErr != nil {
		return p.payErr
	}

	p.payments = append(p.payments, paymentRecord{to, amount})

	return nil
}

func (p *fakePayments) Balance(account string) (uint64, error) {
	if p.balanceErr != nil {
		return 0, p.balanceErr
	}

	return p.balance, nil
}

type fakeIndex struct {
	saved        map[string][]entity.Entity
	requests     []elastic_search.Request
	persisted    []elastic_search.Request
	persistCalls int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{saved: make(map[string][]entity.Entity)}
}

func (i *fakeIndex) GetClient() *elastic.Client {
	return nil
}

func (i *fakeIndex) InstallMappings() {}

func (i *fakeIndex) AddIndexRequest(index string, e entity.Entity, reqAction elastic_search.RequestAction) {
	i.requests = append(i.requests, elastic_search.Request{Index: index, Entity: e, Type: elastic_search.IndexRequest, Action: reqAction})
}

func (i *fakeIndex) AddUpdateRequest(index string, e entity.Entity, reqAction elastic_search.RequestAction) {
	i.requests = append(i.requests, elastic_search.Request{Index: index, Entity: e, Type: elastic_search.UpdateRequest, Action: reqAction})
}

func (i *fakeIndex) GetRequests() []elastic_search.Request {
	return i.requests
}

func (i *fakeIndex) GetRequest(id string) *elastic_search.Request {
	for _, req := range i.requests {
		if req.Entity.Slug() == id {
			r := req
			return &r
		}
	}

	return nil
}

func (i *fakeIndex) ClearRequests() {
	i.requests = nil
}

func (i *fakeIndex) Save(index string, e entity.Entity) {
	i.saved[index] = append(i.saved[index], e)
}

func (i *fakeIndex) Persist() int {
	i.persistCalls++
	actions := len(i.requests)
	i.persisted = append(i.persisted, i.requests...)
	i.requests = nil

	return actions
}

func (i *fakeIndex) lastAction() *entity.ListingAction {
	all := append(append([]elastic_search.Request{}, i.persisted...), i.requests...)
	for idx := len(all) - 1; idx >= 0; idx-- {
		if action, ok := all[idx].Entity.(entity.ListingAction); ok {
			return &action
		}
	}

	return nil
}
