// Package sheets reads and writes tabular data in a Google spreadsheet through
// the Sheets v4 REST API, or in a local .xlsx workbook with the same contract.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2/google"

	"github.com/glowmarket/hunter/internal/resilience"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com/v4"

	// Scope is the OAuth scope needed for read/write access to spreadsheets.
	Scope = "https://www.googleapis.com/auth/spreadsheets"
)

// Client is the spreadsheet contract used by the sink. Ranges are A1 notation
// (see A1Range). Values are row-major.
type Client interface {
	SheetTitles(ctx context.Context) ([]string, error)
	AddSheet(ctx context.Context, title string) error
	GetValues(ctx context.Context, rng string) ([][]string, error)
	UpdateValues(ctx context.Context, rng string, values [][]string) error
	AppendValues(ctx context.Context, rng string, values [][]string) (int, error)
}

// Option configures the REST client.
type Option func(*restClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *restClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the http.Client. The client is expected to attach
// credentials itself (see NewServiceAccountHTTPClient).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *restClient) {
		c.http = hc
	}
}

type restClient struct {
	spreadsheetID string
	baseURL       string
	http          *http.Client
}

// NewClient creates a Sheets client bound to one spreadsheet.
func NewClient(spreadsheetID string, opts ...Option) Client {
	c := &restClient{
		spreadsheetID: spreadsheetID,
		baseURL:       defaultBaseURL,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewServiceAccountHTTPClient returns an http.Client that signs requests with
// the given service-account key (the JSON downloaded from the cloud console).
func NewServiceAccountHTTPClient(ctx context.Context, credentialsJSON []byte, timeout time.Duration) (*http.Client, error) {
	jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, Scope)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: parse service account credentials")
	}
	hc := jwtCfg.Client(ctx)
	hc.Timeout = timeout
	return hc, nil
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values,omitempty"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRows int `json:"updatedRows"`
	} `json:"updates"`
}

func (c *restClient) SheetTitles(ctx context.Context) ([]string, error) {
	var meta spreadsheetMeta
	q := url.Values{"fields": {"sheets.properties.title"}}
	if err := c.do(ctx, http.MethodGet, c.spreadsheetPath("")+"?"+q.Encode(), nil, &meta); err != nil {
		return nil, eris.Wrap(err, "sheets: list tabs")
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

func (c *restClient) AddSheet(ctx context.Context, title string) error {
	body := map[string]any{
		"requests": []any{
			map[string]any{
				"addSheet": map[string]any{
					"properties": map[string]any{"title": title},
				},
			},
		},
	}
	if err := c.do(ctx, http.MethodPost, c.spreadsheetPath(":batchUpdate"), body, nil); err != nil {
		return eris.Wrapf(err, "sheets: add tab %q", title)
	}
	return nil
}

func (c *restClient) GetValues(ctx context.Context, rng string) ([][]string, error) {
	var vr valueRange
	q := url.Values{"majorDimension": {"ROWS"}}
	if err := c.do(ctx, http.MethodGet, c.valuesPath(rng, "")+"?"+q.Encode(), nil, &vr); err != nil {
		return nil, eris.Wrapf(err, "sheets: get %s", rng)
	}
	out := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if s, ok := v.(string); ok {
				out[i][j] = s
			} else if v != nil {
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out, nil
}

func (c *restClient) UpdateValues(ctx context.Context, rng string, values [][]string) error {
	q := url.Values{"valueInputOption": {"RAW"}}
	body := valueRange{Range: rng, MajorDimension: "ROWS", Values: toAny(values)}
	if err := c.do(ctx, http.MethodPut, c.valuesPath(rng, "")+"?"+q.Encode(), body, nil); err != nil {
		return eris.Wrapf(err, "sheets: update %s", rng)
	}
	return nil
}

func (c *restClient) AppendValues(ctx context.Context, rng string, values [][]string) (int, error) {
	q := url.Values{
		"valueInputOption": {"RAW"},
		"insertDataOption": {"INSERT_ROWS"},
	}
	var resp appendResponse
	body := valueRange{MajorDimension: "ROWS", Values: toAny(values)}
	if err := c.do(ctx, http.MethodPost, c.valuesPath(rng, ":append")+"?"+q.Encode(), body, &resp); err != nil {
		return 0, eris.Wrapf(err, "sheets: append %s", rng)
	}
	return resp.Updates.UpdatedRows, nil
}

func (c *restClient) spreadsheetPath(suffix string) string {
	return c.baseURL + "/spreadsheets/" + url.PathEscape(c.spreadsheetID) + suffix
}

func (c *restClient) valuesPath(rng, suffix string) string {
	return c.spreadsheetPath("/values/" + url.PathEscape(rng) + suffix)
}

func (c *restClient) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resilience.HTTPStatusError("sheets", resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func toAny(values [][]string) [][]any {
	out := make([][]any, len(values))
	for i, row := range values {
		out[i] = make([]any, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}
