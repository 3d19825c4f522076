package custody

import "errors"

var (
	ErrTokenNotFound  = errors.New("token not found")
	ErrTransferFailed = errors.New("custody transfer failed")
)

// Authority is the external system of record for asset ownership. The engine
// never caches its answers; every security-relevant decision re-queries it.
type Authority interface {
	OwnerOf(contract string, tokenId uint64) (string, error)
	IsApprovedOperator(contract string, tokenId uint64, operator string) (bool, error)
	IsApprovedForAll(owner, operator string) (bool, error)
	Transfer(from, to, contract string, tokenId uint64) error
}
