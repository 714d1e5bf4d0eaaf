package httpclient

import (
	"github.com/imroc/req/v3"

	"github.com/tbckr/namescout/internal/ratelimit"
)

// AttachLimiter gates every outbound request on limiter.Wait(ctx).
// No retries are configured: a failed DoH query is a negative probe result.
func AttachLimiter(client *req.Client, limiter *ratelimit.Limiter) {
	client.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		return limiter.Wait(r.Context())
	})
}
