package httpclient_test

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/namescout/internal/httpclient"
	"github.com/tbckr/namescout/internal/ratelimit"
)

func TestAttachLimiter_NoRetryOnTransportError(t *testing.T) {
	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)
	httpclient.AttachLimiter(client, ratelimit.New(1000, 1000))

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	var calls atomic.Int32
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return nil, errors.New("connection refused")
		})

	_, err = client.R().Get("https://example.com/")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAttachLimiter_Success(t *testing.T) {
	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)
	httpclient.AttachLimiter(client, ratelimit.New(1000, 1000))

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	resp, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
