package unpaywall

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantURL    string
		wantErr    error
		wantStatus int
	}{
		{
			name:    "best location with pdf",
			status:  http.StatusOK,
			body:    `{"doi":"10.1000/xyz","is_oa":true,"best_oa_location":{"url_for_pdf":"https://example.org/a.pdf","host_type":"repository"}}`,
			wantURL: "https://example.org/a.pdf",
		},
		{
			name:    "no best location",
			status:  http.StatusOK,
			body:    `{"doi":"10.1000/xyz","is_oa":false,"best_oa_location":null}`,
			wantErr: ErrNoOALocation,
		},
		{
			name:    "location without pdf link",
			status:  http.StatusOK,
			body:    `{"doi":"10.1000/xyz","is_oa":true,"best_oa_location":{"url":"https://example.org/landing"}}`,
			wantErr: ErrNoOALocation,
		},
		{
			name:       "unknown doi",
			status:     http.StatusNotFound,
			body:       `{"error":true}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotEmail string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotEmail = r.URL.Query().Get("email")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, "me@example.org", 5*time.Second)
			require.NoError(t, err)

			loc, err := client.Lookup(context.Background(), "10.1000/xyz")
			assert.Equal(t, "/v2/10.1000/xyz", gotPath)
			assert.Equal(t, "me@example.org", gotEmail)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.Code)
				assert.False(t, statusErr.Temporary())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, loc.URLForPDF)
			}
		})
	}
}

func TestNewClientRequiresEmail(t *testing.T) {
	_, err := NewClient("", "", time.Second)
	assert.Error(t, err)
}

func TestStatusErrorTemporary(t *testing.T) {
	assert.True(t, (&StatusError{Code: http.StatusServiceUnavailable}).Temporary())
	assert.True(t, (&StatusError{Code: http.StatusTooManyRequests}).Temporary())
	assert.False(t, (&StatusError{Code: http.StatusForbidden}).Temporary())
}
