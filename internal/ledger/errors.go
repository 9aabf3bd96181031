package ledger

import "errors"

var (
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrOverSell              = errors.New("sale exceeds remaining participation")
	ErrInvalidRange          = errors.New("invalid price range")
	ErrUnknownSymbol         = errors.New("no open distribution for symbol")
	ErrAlreadyClosed         = errors.New("alert is not active")
	ErrInvalidPercentage     = errors.New("invalid percentage")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrSymbolAllocated       = errors.New("symbol already has an open distribution")
	ErrAlertMismatch         = errors.New("alert mismatch")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInsufficientLiquidity, "InsufficientLiquidity"},
	{ErrOverSell, "OverSell"},
	{ErrInvalidRange, "InvalidRange"},
	{ErrUnknownSymbol, "UnknownSymbol"},
	{ErrAlreadyClosed, "AlreadyClosed"},
	{ErrInvalidPercentage, "InvalidPercentage"},
	{ErrInvalidPrice, "InvalidPrice"},
	{ErrInvalidAmount, "InvalidAmount"},
	{ErrSymbolAllocated, "SymbolAllocated"},
	{ErrAlertMismatch, "AlertMismatch"},
}

// Kind returns the stable name of a ledger error, or "" for anything else.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
