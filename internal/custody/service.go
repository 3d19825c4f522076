package custody

import (
	"strings"

	"go.uber.org/zap"
)

type service struct {
	provider *Provider
}

func NewCustodyService(provider *Provider) Authority {
	return service{provider}
}

func (s service) OwnerOf(contract string, tokenId uint64) (string, error) {
	owner, err := s.provider.OwnerOf(contract, tokenId)
	if err != nil {
		zap.L().With(zap.String("contract", contract), zap.Uint64("tokenId", tokenId), zap.Error(err)).Debug("Custody: OwnerOf failed")
		return "", err
	}
	if owner == "" {
		return "", ErrTokenNotFound
	}

	return strings.ToLower(owner), nil
}

func (s service) IsApprovedOperator(contract string, tokenId uint64, operator string) (bool, error) {
	return s.provider.IsApprovedOperator(contract, tokenId, operator)
}

func (s service) IsApprovedForAll(owner, operator string) (bool, error) {
	return s.provider.IsApprovedForAll(owner, operator)
}

func (s service) Transfer(from, to, contract string, tokenId uint64) error {
	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("from", from),
		zap.String("to", to),
	).Info("Custody: Transfer")

	return s.provider.Transfer(from, to, contract, tokenId)
}
