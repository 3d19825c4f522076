package marketplace

import (
	"sort"

	"github.com/zildex/zilliqa-nft-marketplace/internal/entity"
)

// Policy is the admin-controlled gate consumed by every engine entry point:
// which collections trade, at what fee rate, and whether the system is
// halted. The engine's mutex covers all access.
type Policy struct {
	feeBps  uint
	paused  bool
	allowed map[string]struct{}
}

func NewPolicy(feeBps uint) *Policy {
	return &Policy{
		feeBps:  feeBps,
		allowed: make(map[string]struct{}),
	}
}

func (p *Policy) FeeBps() uint {
	return p.feeBps
}

func (p *Policy) SetFeeBps(bps uint) error {
	if bps >= entity.MaxFeeBps {
		return ErrFeeTooHigh
	}
	p.feeBps = bps

	return nil
}

func (p *Policy) Paused() bool {
	return p.paused
}

func (p *Policy) Pause() {
	p.paused = true
}

func (p *Policy) Unpause() {
	p.paused = false
}

func (p *Policy) Allow(contract string) {
	p.allowed[contract] = struct{}{}
}

func (p *Policy) Disallow(contract string) {
	delete(p.allowed, contract)
}

func (p *Policy) Allowed(contract string) bool {
	_, ok := p.allowed[contract]
	return ok
}

func (p *Policy) AllowedContracts() []string {
	contracts := make([]string, 0, len(p.allowed))
	for contract := range p.allowed {
		contracts = append(contracts, contract)
	}
	sort.Strings(contracts)

	return contracts
}

func (p *Policy) Restore(state entity.MarketState) {
	p.feeBps = state.FeeBps
	p.paused = state.Paused
	p.allowed = make(map[string]struct{})
	for _, contract := range state.AllowedContracts {
		p.allowed[contract] = struct{}{}
	}
}
