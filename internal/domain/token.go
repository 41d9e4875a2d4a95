package domain

import "strconv"

// TokenID is a Voi asset identifier. The native token (VOI) is id 0;
// ARC-200 tokens use their application id.
type TokenID uint64

const NativeTokenID TokenID = 0

func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id TokenID) IsNative() bool {
	return id == NativeTokenID
}

// Token is immutable reference metadata, loaded once per session from the
// token registry.
type Token struct {
	ID       TokenID `json:"id"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Decimals uint8   `json:"decimals"`
}
