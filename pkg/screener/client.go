package screener

import "context"

// Quote is one screener row. Unparseable numeric fields parse to NaN.
type Quote struct {
	Symbol      string
	Price       float64
	FloatShares float64
}

type Client interface {
	Screen(ctx context.Context) ([]Quote, error)
	Name() string
}
