package services

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const StakeShareDisplayDecimalPlace = 3

// FormatStakeShare renders a share as a percentage with three decimal places.
// Shares below 0.001% are shown as "< 0.001%" instead of rounding to zero.
func FormatStakeShare(share *big.Rat) string {
	if share == nil || share.Sign() == 0 {
		return "0%"
	}

	percent := new(big.Rat).Mul(share, big.NewRat(100, 1))

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(StakeShareDisplayDecimalPlace), nil)
	roundedDown := new(big.Int).Quo(new(big.Int).Mul(percent.Num(), scale), percent.Denom())
	if roundedDown.Sign() == 0 {
		return "< " + decimal.New(1, -StakeShareDisplayDecimalPlace).String() + "%"
	}

	return percent.FloatString(StakeShareDisplayDecimalPlace) + "%"
}

// FormatBalance moves the decimal point fixedPoint places left and groups thousands,
// e.g. 123456789 with fixedPoint 4 and unit CENNZ is "12,345.6789 CENNZ"
func FormatBalance(amount decimal.Decimal, fixedPoint int32, unit string) string {
	value := amount.Shift(-fixedPoint).StringFixed(fixedPoint)

	sign := ""
	if strings.HasPrefix(value, "-") {
		sign = "-"
		value = value[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(value, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	result := sign + grouped.String()
	if hasFrac {
		result += "." + fracPart
	}
	if unit != "" {
		result += " " + unit
	}

	return result
}
