package entity

// MarketState is the single policy document: fee rate, pause flag, fee
// ledger and the set of tradeable collections. There is exactly one per
// market index.
type MarketState struct {
	FeeBps           uint     `json:"feeBps"`
	Paused           bool     `json:"paused"`
	FeeLedger        uint64   `json:"feeLedger"`
	AllowedContracts []string `json:"allowedContracts"`
}

// MaxFeeBps is the exclusive ceiling for the fee rate, in tenths of a
// percent. 1000 would take the whole price.
const MaxFeeBps uint = 1000

func (s MarketState) Slug() string {
	return "market-state"
}
