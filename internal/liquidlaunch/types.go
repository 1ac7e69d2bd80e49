package liquidlaunch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// listResponse is the raw /api/tokens payload.
type listResponse struct {
	Tokens     []rawToken `json:"tokens"`
	TotalCount int        `json:"totalCount"`
}

// rawMetadata holds the optional social links.
type rawMetadata struct {
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Discord  string `json:"discord,omitempty"`
}

// rawUSD is the nested {"usd": "..."} amount wrapper.
type rawUSD struct {
	USD flexNumber `json:"usd"`
}

// rawTimeframe carries the per-window trading fields.
type rawTimeframe struct {
	Volume      *flexNumber `json:"volume"`
	PriceChange *flexNumber `json:"priceChange"`
}

// rawToken mirrors the API token object. Numeric fields arrive as strings
// or numbers depending on the endpoint, and nested objects may be absent
// entirely; flexNumber and pointer fields absorb both shapes so the rest
// of the codebase never sees them.
type rawToken struct {
	Address           string                  `json:"address"`
	Symbol            string                  `json:"symbol"`
	Name              string                  `json:"name"`
	Metadata          rawMetadata             `json:"metadata"`
	CreationTimestamp flexTimestamp           `json:"creationTimestamp"`
	MarketCap         *rawUSD                 `json:"marketCap"`
	Liquidity         *rawUSD                 `json:"liquidity"`
	Timeframes        map[string]rawTimeframe `json:"timeframes"`
	Progress          *float64                `json:"progress"`
	HolderCount       *flexNumber             `json:"holderCount"`
}

// flexNumber decodes a JSON number or numeric string. Missing, null and
// unparseable values decode to NaN.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*n = flexNumber(math.NaN())
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = flexNumber(math.NaN())
		return nil
	}
	*n = flexNumber(v)
	return nil
}

// Value returns the decoded number; NaN when missing.
func (n flexNumber) Value() float64 { return float64(n) }

// flexTimestamp decodes a creation timestamp that arrives either as epoch
// seconds (number) or as an ISO date string, depending on the endpoint.
// Decodes to unix seconds; 0 when missing or unparseable.
type flexTimestamp int64

func (ts *flexTimestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*ts = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*ts = 0
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, str); err == nil {
				*ts = flexTimestamp(t.Unix())
				return nil
			}
		}
		*ts = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*ts = 0
		return nil
	}
	*ts = flexTimestamp(int64(v))
	return nil
}

// Unix returns the decoded timestamp in unix seconds; 0 when missing.
func (ts flexTimestamp) Unix() int64 { return int64(ts) }
