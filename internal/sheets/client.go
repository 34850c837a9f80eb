// Package sheets speaks to the spreadsheet-backed persistence endpoint: one
// GET that returns every collection and one POST that replaces them all.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/config"
	"github.com/kesleylibanio/fretesopipa/internal/model"
)

type Client struct {
	apiURL     string
	token      string
	retries    int
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

func NewClient(cfg config.SheetsConfig, log zerolog.Logger) *Client {
	return &Client{
		apiURL:     cfg.APIURL,
		token:      cfg.Token,
		retries:    cfg.FetchRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
		now:        time.Now,
	}
}

type fetchEnvelope struct {
	Error     string `json:"error"`
	Customers []row  `json:"Clientes"`
	Drivers   []row  `json:"Motoristas"`
	Vehicles  []row  `json:"Veiculos"`
	Locations []row  `json:"Locais"`
	Materials []row  `json:"Materiais"`
	Rates     []row  `json:"Fretes"`
	Trips     []row  `json:"Viagens"`
	Logins    []row  `json:"Logins"`
	Metadata  *struct {
		RecentIDs map[string][]string `json:"recentIds"`
	} `json:"Metadata"`
}

// Fetch reads the full remote state. Network and server failures are retried
// a fixed number of times; exhausting them is fatal to session start.
func (c *Client) Fetch(ctx context.Context) (model.Snapshot, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		snap, err := c.fetchOnce(ctx)
		if err == nil {
			return snap, nil
		}
		lastErr = err
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("sheet fetch failed")
		if ctx.Err() != nil {
			break
		}
	}
	return model.Snapshot{}, fmt.Errorf("fetch exhausted retries: %w", lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (model.Snapshot, error) {
	query := url.Values{}
	query.Set("token", c.token)
	query.Set("action", "read")
	// Cache buster; the Apps Script edge caches aggressively.
	query.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return model.Snapshot{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Snapshot{}, fmt.Errorf("sheet read returned status %d", resp.StatusCode)
	}

	var envelope fetchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode sheet response: %w", err)
	}
	if envelope.Error != "" {
		return model.Snapshot{}, fmt.Errorf("sheet server error: %s", envelope.Error)
	}

	snap := model.Snapshot{
		Customers:    namedFromRows(envelope.Customers),
		Drivers:      driversFromRows(envelope.Drivers),
		Vehicles:     vehiclesFromRows(envelope.Vehicles),
		Locations:    locationsFromRows(envelope.Locations),
		Materials:    materialsFromRows(envelope.Materials),
		FreightRates: ratesFromRows(envelope.Rates),
		Trips:        tripsFromRows(envelope.Trips),
		Logins:       loginsFromRows(envelope.Logins),
		RecentIDs:    map[string][]string{},
	}
	if envelope.Metadata != nil && envelope.Metadata.RecentIDs != nil {
		snap.RecentIDs = envelope.Metadata.RecentIDs
	}
	now := c.now()
	for i := range snap.Trips {
		snap.Trips[i].CreatedAt = now
	}
	return normalizeRefs(snap), nil
}

// Push replaces the whole remote state with the given snapshot. The endpoint
// answers plain text; anything without the "success" marker is a failure.
func (c *Client) Push(ctx context.Context, snap model.Snapshot) error {
	body, err := json.Marshal(buildPushPayload(c.token, snap))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	// text/plain sidesteps the Apps Script CORS preflight; the script parses
	// the body as JSON regardless.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheet write returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(strings.TrimSpace(string(raw))), "success") {
		return fmt.Errorf("sheet write rejected: %s", strings.TrimSpace(string(raw)))
	}
	return nil
}
