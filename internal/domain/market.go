package domain

// MarketSnapshot is a point-in-time read of a trading pair from the
// price/liquidity source. Fetched fresh per run, never persisted on its own.
type MarketSnapshot struct {
	PriceUSD      float64 `json:"price_usd"`
	LiquidityUSD  float64 `json:"liquidity_usd"`
	VolumeH1      float64 `json:"volume_h1"`
	VolumeH6      float64 `json:"volume_h6"`
	VolumeH24     float64 `json:"volume_h24"`
	PriceChangeH1 float64 `json:"price_change_h1"`
	PriceChangeH6 float64 `json:"price_change_h6"`
	PriceChange24 float64 `json:"price_change_h24"`
	BuysH24       int64   `json:"buys_h24"`
	SellsH24      int64   `json:"sells_h24"`

	// Market cap inputs. MarketCap is the venue-reported figure when the
	// endpoint carries one; FDV and TotalSupply feed the fallback chain.
	MarketCap   float64 `json:"market_cap"`
	FDV         float64 `json:"fdv"`
	TotalSupply float64 `json:"total_supply"`

	// PairCreatedAt is the raw creation timestamp as reported upstream,
	// seconds or milliseconds since epoch. Zero means unknown.
	PairCreatedAt int64 `json:"pair_created_at"`
}

// ResolveMarketCap applies the fallback chain: venue-reported cap, then
// fully-diluted valuation, then price x total supply, else zero.
func (s *MarketSnapshot) ResolveMarketCap() float64 {
	if s == nil {
		return 0
	}
	if s.MarketCap > 0 {
		return s.MarketCap
	}
	if s.FDV > 0 {
		return s.FDV
	}
	if s.PriceUSD > 0 && s.TotalSupply > 0 {
		return s.PriceUSD * s.TotalSupply
	}
	return 0
}

// Pair is one search hit from the price/liquidity source: token identity
// plus the market snapshot observed at search time.
type Pair struct {
	ChainID     string         `json:"chain_id"`
	DexID       string         `json:"dex_id"`
	PairAddress string         `json:"pair_address"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Address     string         `json:"address"`
	Snapshot    MarketSnapshot `json:"snapshot"`
}
