// Package seed loads the candidate seed document and holds the static
// chain lookup tables.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/memerank/memerank/internal/domain"
)

// List is the input artifact: a processed-count plus the ordered candidate
// records. Order matters downstream for deterministic tie-breaking.
type List struct {
	MemesProcessed int                `json:"memes_processed"`
	Matches        []domain.Candidate `json:"matches"`
}

// utf8BOM shows up in seed files exported from Windows tooling.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads and decodes a seed document. A missing or malformed file is
// fatal to the run: no partial output is ever produced from bad input.
func Load(path string) (*List, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed list: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var list List
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse seed list %s: %w", path, err)
	}
	if len(list.Matches) == 0 {
		return nil, fmt.Errorf("seed list %s has no candidates", path)
	}
	return &list, nil
}

// explorers maps a chain identifier to its block explorer address prefix.
// Pure configuration.
var explorers = map[string]string{
	"ethereum":  "https://etherscan.io/address/",
	"bsc":       "https://bscscan.com/address/",
	"solana":    "https://solscan.io/account/",
	"arbitrum":  "https://arbiscan.io/address/",
	"polygon":   "https://polygonscan.com/address/",
	"avalanche": "https://snowtrace.io/address/",
	"fantom":    "https://ftmscan.com/address/",
	"optimism":  "https://optimistic.etherscan.io/address/",
	"base":      "https://basescan.org/address/",
}

// ExplorerURL returns the block explorer link for an address, or empty
// when the chain is unknown or the address missing.
func ExplorerURL(chain, address string) string {
	prefix, ok := explorers[normalizeChain(chain)]
	if !ok || address == "" {
		return ""
	}
	return prefix + address
}

func normalizeChain(chain string) string {
	out := make([]rune, 0, len(chain))
	for _, r := range chain {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
