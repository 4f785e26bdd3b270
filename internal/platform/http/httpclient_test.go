package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(7 * time.Second)

	assert.Equal(t, 7*time.Second, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok, "transport should be *http.Transport")
	assert.Equal(t, 10, tr.MaxIdleConnsPerHost)
	assert.Equal(t, 7*time.Second, tr.ResponseHeaderTimeout)
	assert.NotNil(t, tr.Proxy)
}

func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(20 * time.Millisecond).Get(srv.URL)
	if resp != nil {
		_ = resp.Body.Close()
	}
	assert.Error(t, err)
}
