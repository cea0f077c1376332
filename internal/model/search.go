package model

import (
	"time"
)

// SearchSpot is a spot search hit with its owner.
type SearchSpot struct {
	Spot
	Owner ProfileSummary `db:"owner" json:"profile"`
}

// SearchPost is a capture search hit with owner and spot name.
type SearchPost struct {
	ID        string         `db:"id" json:"id"`
	Caption   *string        `db:"caption" json:"caption"`
	MediaURL  string         `db:"media_url" json:"media_url"`
	MediaType string         `db:"media_type" json:"media_type"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UserID    string         `db:"user_id" json:"user_id"`
	SpotID    string         `db:"spot_id" json:"spot_id"`
	SpotName  string         `db:"spot_name" json:"spot_name"`
	Owner     ProfileSummary `db:"owner" json:"profile"`
}

// SearchResult bundles the independent search categories. Categories are
// never interleaved or ranked against each other.
type SearchResult struct {
	Users []ProfileSummary `json:"users"`
	Spots []SearchSpot     `json:"spots"`
	Posts []SearchPost     `json:"posts"`
}

// SearchCategoryLimit caps each category independently.
const SearchCategoryLimit = 10

// EmptySearchResult returns a bundle with three non-nil empty lists.
func EmptySearchResult() *SearchResult {
	return &SearchResult{
		Users: []ProfileSummary{},
		Spots: []SearchSpot{},
		Posts: []SearchPost{},
	}
}
