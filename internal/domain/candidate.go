package domain

// Candidate is one seed entry from the meme list. Seed fields are never
// mutated by the pipeline; everything derived lands in a ScoreBreakdown.
type Candidate struct {
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol,omitempty"`
	Token        string   `json:"token,omitempty"`
	Chain        string   `json:"chain,omitempty"`
	Address      string   `json:"address,omitempty"`
	PairAddress  string   `json:"pair_address,omitempty"`
	Dex          string   `json:"dex,omitempty"`
	URL          string   `json:"url,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ListTags     []string `json:"list_tags,omitempty"`
	AddedAt      string   `json:"created_at,omitempty"`
	Views        int64    `json:"views"`
	VideoCount   int64    `json:"videos_count"`
	ImageCount   int64    `json:"images_count"`
	CommentCount int64    `json:"comments_count"`
}

// DisplayName prefers the resolved token name over the raw meme name.
func (c Candidate) DisplayName() string {
	if c.Token != "" {
		return c.Token
	}
	return c.Name
}
