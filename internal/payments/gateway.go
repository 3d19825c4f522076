package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var (
	ErrPaymentRejected = errors.New("payment rejected")
)

// Gateway delivers funds held by the marketplace account. Balance reports
// the account's current holdings and backs the withdraw solvency check.
type Gateway interface {
	Pay(to string, amount uint64) error
	Balance(account string) (uint64, error)
}

type gateway struct {
	url    string
	client *retryablehttp.Client
}

func NewGateway(url string, client *retryablehttp.Client) Gateway {
	return gateway{url, client}
}

type payRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

func (g gateway) Pay(to string, amount uint64) error {
	body, err := json.Marshal(payRequest{To: to, Amount: amount})
	if err != nil {
		return err
	}

	resp, err := g.client.Post(fmt.Sprintf("%s/pay", g.url), "application/json", bytes.NewReader(body))
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("to", to), zap.Uint64("amount", amount)).Warn("Payments: Pay failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		zap.L().With(zap.String("status", resp.Status), zap.String("to", to), zap.Uint64("amount", amount)).Warn("Payments: Pay rejected")
		return ErrPaymentRejected
	}

	return nil
}

func (g gateway) Balance(account string) (uint64, error) {
	resp, err := g.client.Get(fmt.Sprintf("%s/balance/%s", g.url, account))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return 0, errors.New(resp.Status)
	}

	var balance balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return 0, err
	}

	return balance.Balance, nil
}
