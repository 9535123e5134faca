package httpclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patchstream/rollout-server/internal/httpclient"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		url           string
		message       string
		expectedError string
	}{
		{
			name:          "create HTTPError with all fields",
			statusCode:    404,
			url:           "http://example.com",
			message:       "Not Found",
			expectedError: "HTTP 404 for URL http://example.com: Not Found",
		},
		{
			name:          "format error message correctly for 500",
			statusCode:    500,
			url:           "http://admin.example.com/api/v1/updates",
			message:       "Internal Server Error",
			expectedError: "HTTP 500 for URL http://admin.example.com/api/v1/updates: Internal Server Error",
		},
		{
			name:          "handle empty message",
			statusCode:    404,
			url:           "http://example.com",
			message:       "",
			expectedError: "HTTP 404 for URL http://example.com: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)

			require.Error(t, err)
			assert.Equal(t, tt.expectedError, err.Error())
		})
	}
}

func TestHTTPError_EdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		url        string
		message    string
	}{
		{
			name:       "zero status code",
			statusCode: 0,
			url:        "http://example.com",
			message:    "Zero Status",
		},
		{
			name:       "empty URL",
			statusCode: 404,
			url:        "",
			message:    "Not Found",
		},
		{
			name:       "URL with special characters",
			statusCode: 404,
			url:        "http://example.com/path?query=value&foo=bar#anchor",
			message:    "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)

			require.Error(t, err)
			assert.NotEmpty(t, err.Error())
		})
	}
}
