package deploy

import "github.com/Klingon-tech/cspr-wallet-core/pkg/types"

// ExtractAmount returns the "amount" argument in minor units. Anything other
// than a non-negative decimal integer (string or number) yields "0".
func ExtractAmount(args Args) string {
	arg, ok := args.Get("amount")
	if !ok {
		return "0"
	}
	v := arg.Scalar()
	if !types.IsMinorUnits(v) {
		return "0"
	}
	return v
}
