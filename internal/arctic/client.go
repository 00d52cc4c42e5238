// Package arctic is a read-only client for the Arctic Reservations REST
// API: trip types, pricing levels, and scheduled dates. It is the source
// of every system-generated pricing and schedule value; nothing here
// ever writes to the reservation system.
package arctic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnauthorized means the configured credentials were rejected.
var ErrUnauthorized = errors.New("arctic: authentication failed")

// Client talks to one Arctic Reservations instance over basic auth.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// New builds a client. httpClient may be nil for sane defaults.
func New(baseURL, username, password string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, username: username, password: password, http: httpClient}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("arctic: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("arctic: %s: status %d: %s", endpoint, resp.StatusCode, text)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("arctic: decoding %s response: %w", endpoint, err)
	}
	return nil
}

type page struct {
	Entries []json.RawMessage `json:"entries"`
	Total   int               `json:"total"`
}

// getPaginated walks a paginated endpoint until all entries are read.
func (c *Client) getPaginated(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	const pageSize = 50
	var all []json.RawMessage
	for pageNum := 0; ; pageNum++ {
		params := url.Values{"page": {strconv.Itoa(pageNum)}}
		var p page
		if err := c.get(ctx, endpoint, params, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Entries...)
		if len(all) >= p.Total || len(p.Entries) < pageSize {
			return all, nil
		}
	}
}

// TripType is one bookable product as the reservation system sees it.
type TripType struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Shortname     string         `json:"shortname"`
	PricingLevels []PricingLevel `json:"pricinglevels"`
}

// PricingLevel is one price option attached to a trip type.
type PricingLevel struct {
	Name       string     `json:"name"`
	Amount     flexAmount `json:"amount"`
	ShowOnline bool       `json:"showonline"`
	Default    bool       `json:"default"`
}

// flexAmount tolerates amounts sent as JSON numbers, display strings
// like "$1,275.00", or null.
type flexAmount string

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = flexAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = flexAmount(n.String())
	return nil
}

// TripTypes returns every trip type, paging through the API.
func (c *Client) TripTypes(ctx context.Context) ([]TripType, error) {
	raw, err := c.getPaginated(ctx, "triptype")
	if err != nil {
		return nil, err
	}
	out := make([]TripType, 0, len(raw))
	for _, r := range raw {
		var t TripType
		if err := json.Unmarshal(r, &t); err != nil {
			continue // tolerate malformed entries
		}
		out = append(out, t)
	}
	return out, nil
}

// TripType fetches a single trip type by id.
func (c *Client) TripType(ctx context.Context, id int) (*TripType, error) {
	var t TripType
	if err := c.get(ctx, "triptype/"+strconv.Itoa(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PricingSummary is the formatted pricing for one trip: price levels
// plus the deposit, if any level names one.
type PricingSummary struct {
	TripID  int
	Levels  []PriceEntry
	Deposit *PriceEntry
}

// PriceEntry is one displayable price option.
type PriceEntry struct {
	Name          string
	AmountDisplay string
	Default       bool
}

// Pricing returns the displayable pricing summary for a trip type.
// Levels hidden from online display and levels with unusable amounts
// are dropped.
func (c *Client) Pricing(ctx context.Context, tripID int) (*PricingSummary, error) {
	t, err := c.TripType(ctx, tripID)
	if err != nil {
		return nil, err
	}
	s := &PricingSummary{TripID: tripID}
	for _, level := range t.PricingLevels {
		amount, ok := parseAmount(level.Amount)
		if !ok || !level.ShowOnline {
			continue
		}
		entry := PriceEntry{
			Name:          level.Name,
			AmountDisplay: formatAmount(amount),
			Default:       level.Default,
		}
		if strings.Contains(strings.ToLower(level.Name), "deposit") {
			d := entry
			s.Deposit = &d
			continue
		}
		s.Levels = append(s.Levels, entry)
	}
	return s, nil
}

func parseAmount(a flexAmount) (float64, bool) {
	raw := strings.TrimSpace(string(a))
	raw = strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// formatAmount renders a dollar amount with thousands separators and no
// cents, matching the display format used on the website.
func formatAmount(f float64) string {
	n := int64(f + 0.5)
	digits := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	out := "$" + strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
