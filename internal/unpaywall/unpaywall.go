package unpaywall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.unpaywall.org"

var ErrNoOALocation = errors.New("no open-access pdf location")

// StatusError is returned when Unpaywall answers with a non-200 status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unpaywall error %d", e.Code)
}

// Temporary reports whether a later attempt might succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout
}

// Location is an open-access copy of a publication.
type Location struct {
	URLForPDF string `json:"url_for_pdf"`
	URL       string `json:"url"`
	HostType  string `json:"host_type"`
	Version   string `json:"version"`
	License   string `json:"license"`
}

type work struct {
	DOI            string    `json:"doi"`
	IsOA           bool      `json:"is_oa"`
	BestOALocation *Location `json:"best_oa_location"`
}

// Lookuper resolves a DOI to a downloadable PDF location.
type Lookuper interface {
	Lookup(ctx context.Context, doi string) (Location, error)
}

// Client calls the Unpaywall v2 REST API.
type Client struct {
	http  *resty.Client
	email string
}

// NewClient builds a client against baseURL. Unpaywall requires a contact email
// on every request.
func NewClient(baseURL, email string, timeout time.Duration) (*Client, error) {
	if email == "" {
		return nil, fmt.Errorf("unpaywall email required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: httpClient, email: email}, nil
}

// Lookup returns the best open-access location that links a PDF directly.
func (c *Client) Lookup(ctx context.Context, doi string) (Location, error) {
	var result work
	resp, err := c.http.R().
		SetContext(ctx).
		SetRawPathParam("doi", strings.TrimSpace(doi)).
		SetQueryParam("email", c.email).
		SetResult(&result).
		Get("/v2/{doi}")
	if err != nil {
		return Location{}, fmt.Errorf("unpaywall request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Location{}, &StatusError{Code: resp.StatusCode()}
	}
	if result.BestOALocation == nil || result.BestOALocation.URLForPDF == "" {
		return Location{}, ErrNoOALocation
	}
	return *result.BestOALocation, nil
}
