package helper

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/Zilliqa/gozilliqa-sdk/bech32"
)

var ErrInvalidAddress = errors.New("invalid address")

// NormaliseAddress maps bech32 (zil1...) and 0x-hex forms onto the lowercase
// base16 representation used as a key throughout the market.
func NormaliseAddress(addr string) (string, error) {
	addr = strings.TrimSpace(strings.ToLower(addr))
	if addr == "" {
		return "", ErrInvalidAddress
	}

	if strings.HasPrefix(addr, "zil1") {
		hex, err := bech32.FromBech32Addr(addr)
		if err != nil {
			return "", err
		}
		addr = strings.ToLower(hex)
	}

	addr = strings.TrimPrefix(addr, "0x")
	if len(addr) != 40 {
		return "", ErrInvalidAddress
	}
	if _, err := hex.DecodeString(addr); err != nil {
		return "", ErrInvalidAddress
	}

	return "0x" + addr, nil
}
