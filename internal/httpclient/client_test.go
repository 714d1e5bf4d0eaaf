package httpclient_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/namescout/internal/httpclient"
)

func TestNew_NoProxy(t *testing.T) {
	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNew_Proxies(t *testing.T) {
	for _, p := range []string{"http://proxy.example.com:8080", "https://proxy.example.com:8080", "socks5://127.0.0.1:9050"} {
		client, err := httpclient.New(p, "", nil, false)
		require.NoError(t, err, "proxy=%s", p)
		assert.NotNil(t, client)
	}
}

func TestNew_InvalidProxyScheme(t *testing.T) {
	_, err := httpclient.New("ftp://proxy.example.com:8080", "", nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proxy scheme")
}

func TestNew_UserAgentHeader(t *testing.T) {
	for _, tc := range []struct{ configured, want string }{
		{"", httpclient.DefaultUserAgent},
		{"MyBot/1.0", "MyBot/1.0"},
	} {
		client, err := httpclient.New("", tc.configured, nil, false)
		require.NoError(t, err)

		httpmock.ActivateNonDefault(client.GetClient())
		var got string
		httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
			func(r *http.Request) (*http.Response, error) {
				got = r.Header.Get("User-Agent")
				return httpmock.NewStringResponse(http.StatusOK, ""), nil
			})

		_, err = client.R().Get("https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		httpmock.DeactivateAndReset()
	}
}

func TestNew_WithDebugLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := httpclient.New("", "", logger, true)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestValidateProxy(t *testing.T) {
	assert.NoError(t, httpclient.ValidateProxy("socks5://127.0.0.1:1080"))
	assert.Error(t, httpclient.ValidateProxy("socks5://"))
	assert.Error(t, httpclient.ValidateProxy("127.0.0.1:1080"))
}

func TestResolveProxy_ExplicitWinsOverEnv(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://envproxy.example.com:8080")
	assert.Equal(t, "http://explicit.example.com:8080", httpclient.ResolveProxy("http://explicit.example.com:8080"))
}

func TestResolveProxy_Env(t *testing.T) {
	t.Setenv("ALL_PROXY", "socks5://envproxy.example.com:1080")
	assert.Equal(t, "<from environment>", httpclient.ResolveProxy(""))
}

func TestResolveProxy_NoProxy(t *testing.T) {
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy"} {
		t.Setenv(env, "")
	}
	assert.Equal(t, "", httpclient.ResolveProxy(""))
}
