package custody

import (
	"encoding/json"
	"errors"
)

type Provider struct {
	rpcClient *rpcClient
}

func NewProvider(rpcClient *rpcClient) *Provider {
	return &Provider{rpcClient: rpcClient}
}

type tokenParams struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
}

type operatorParams struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Operator string `json:"operator"`
}

type blanketParams struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
}

type transferParams struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
}

func (p *Provider) OwnerOf(contract string, tokenId uint64) (string, error) {
	response, err := p.call("OwnerOf", tokenParams{contract, tokenId})
	if err != nil {
		return "", err
	}

	var owner string
	if err := json.Unmarshal(response.Result, &owner); err != nil {
		return "", err
	}

	return owner, nil
}

func (p *Provider) IsApprovedOperator(contract string, tokenId uint64, operator string) (bool, error) {
	response, err := p.call("IsApprovedOperator", operatorParams{contract, tokenId, operator})
	if err != nil {
		return false, err
	}

	return p.resultAsBool(response)
}

func (p *Provider) IsApprovedForAll(owner, operator string) (bool, error) {
	response, err := p.call("IsApprovedForAll", blanketParams{owner, operator})
	if err != nil {
		return false, err
	}

	return p.resultAsBool(response)
}

func (p *Provider) Transfer(from, to, contract string, tokenId uint64) error {
	response, err := p.call("Transfer", transferParams{from, to, contract, tokenId})
	if err != nil {
		return err
	}

	ok, err := p.resultAsBool(response)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTransferFailed
	}

	return nil
}

func (p *Provider) call(method string, params interface{}) (*rpcResponse, error) {
	response, err := p.rpcClient.call(method, params)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, errors.New("empty custody response")
	}
	if response.Error != nil {
		return nil, response.Error
	}

	return response, nil
}

func (p *Provider) resultAsBool(response *rpcResponse) (bool, error) {
	var ok bool
	if err := json.Unmarshal(response.Result, &ok); err != nil {
		return false, err
	}

	return ok, nil
}
