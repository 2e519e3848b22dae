package model

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const weiPerEtherExp = 18

// ParseWei parses a decimal wei string into a big.Int. Empty input parses
// as zero so absent amounts do not fail derivations.
func ParseWei(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount: %s", value)
	}
	return parsed, nil
}

// WeiToEtherDecimal converts a wei string to its ether-denominated
// decimal value, for arithmetic such as fiat conversion.
func WeiToEtherDecimal(value string) (decimal.Decimal, error) {
	wei, err := ParseWei(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromBigInt(wei, -weiPerEtherExp), nil
}

// WeiToEther renders a wei string as an ether-denominated display string.
func WeiToEther(value string) (string, error) {
	ether, err := WeiToEtherDecimal(value)
	if err != nil {
		return "", err
	}
	return ether.String(), nil
}
