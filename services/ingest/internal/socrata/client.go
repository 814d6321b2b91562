package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Record is one raw row of the NYC open data air quality dataset. All
// Socrata JSON fields arrive as strings.
type Record struct {
	UniqueID    string `json:"unique_id"`
	IndicatorID string `json:"indicator_id"`
	Name        string `json:"name"`
	Measure     string `json:"measure"`
	MeasureInfo string `json:"measure_info"`
	GeoTypeName string `json:"geo_type_name"`
	GeoJoinID   string `json:"geo_join_id"`
	GeoPlace    string `json:"geo_place_name"`
	TimePeriod  string `json:"time_period"`
	StartDate   string `json:"start_date"`
	DataValue   string `json:"data_value"`
}

// Client fetches dataset pages from a Socrata domain. AppToken is optional;
// without it requests are throttled harder by the API.
type Client struct {
	Domain     string
	AppToken   string
	HTTPClient *http.Client
}

// FetchPage retrieves one page of records ordered by unique_id.
func (c *Client) FetchPage(ctx context.Context, datasetID string, limit, offset int) ([]Record, error) {
	endpoint := url.URL{
		Scheme: "https",
		Host:   c.Domain,
		Path:   fmt.Sprintf("/resource/%s.json", datasetID),
	}
	query := endpoint.Query()
	query.Set("$limit", strconv.Itoa(limit))
	query.Set("$offset", strconv.Itoa(offset))
	query.Set("$order", "unique_id")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.AppToken != "" {
		req.Header.Set("X-App-Token", c.AppToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request dataset page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return records, nil
}

// FetchAll pages through the dataset until an empty page or maxRecords.
func (c *Client) FetchAll(ctx context.Context, datasetID string, pageLimit, maxRecords int) ([]Record, error) {
	all := make([]Record, 0, pageLimit)
	for offset := 0; offset < maxRecords; offset += pageLimit {
		limit := pageLimit
		if remaining := maxRecords - offset; remaining < limit {
			limit = remaining
		}
		page, err := c.FetchPage(ctx, datasetID, limit, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < limit {
			break
		}
	}
	return all, nil
}
