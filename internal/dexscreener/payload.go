package dexscreener

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/memerank/memerank/internal/domain"
)

// flexFloat decodes upstream numeric fields that arrive as JSON numbers,
// quoted strings, or null. Unparsable values decode to zero instead of
// failing the whole payload.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt is flexFloat for integer fields (epoch timestamps, counters).
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var ff flexFloat
	if err := ff.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(ff)
	return nil
}

// pairPayload mirrors the upstream pair document.
type pairPayload struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`

	BaseToken struct {
		Address     string    `json:"address"`
		Name        string    `json:"name"`
		Symbol      string    `json:"symbol"`
		TotalSupply flexFloat `json:"totalSupply"`
	} `json:"baseToken"`

	PriceUSD flexFloat `json:"priceUsd"`

	Liquidity struct {
		USD flexFloat `json:"usd"`
	} `json:"liquidity"`

	Volume struct {
		H1  flexFloat `json:"h1"`
		H6  flexFloat `json:"h6"`
		H24 flexFloat `json:"h24"`
	} `json:"volume"`

	PriceChange struct {
		H1  flexFloat `json:"h1"`
		H6  flexFloat `json:"h6"`
		H24 flexFloat `json:"h24"`
	} `json:"priceChange"`

	Txns struct {
		H24 struct {
			Buys  flexInt `json:"buys"`
			Sells flexInt `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`

	FDV           flexFloat `json:"fdv"`
	MarketCap     flexFloat `json:"marketCap"`
	PairCreatedAt flexInt   `json:"pairCreatedAt"`
}

func (p pairPayload) snapshot() *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		PriceUSD:      float64(p.PriceUSD),
		LiquidityUSD:  float64(p.Liquidity.USD),
		VolumeH1:      float64(p.Volume.H1),
		VolumeH6:      float64(p.Volume.H6),
		VolumeH24:     float64(p.Volume.H24),
		PriceChangeH1: float64(p.PriceChange.H1),
		PriceChangeH6: float64(p.PriceChange.H6),
		PriceChange24: float64(p.PriceChange.H24),
		BuysH24:       int64(p.Txns.H24.Buys),
		SellsH24:      int64(p.Txns.H24.Sells),
		MarketCap:     float64(p.MarketCap),
		FDV:           float64(p.FDV),
		TotalSupply:   float64(p.BaseToken.TotalSupply),
		PairCreatedAt: int64(p.PairCreatedAt),
	}
}

func (p pairPayload) pair() domain.Pair {
	return domain.Pair{
		ChainID:     p.ChainID,
		DexID:       p.DexID,
		PairAddress: p.PairAddress,
		Name:        p.BaseToken.Name,
		Symbol:      p.BaseToken.Symbol,
		Address:     p.BaseToken.Address,
		Snapshot:    *p.snapshot(),
	}
}

var _ json.Unmarshaler = (*flexFloat)(nil)
