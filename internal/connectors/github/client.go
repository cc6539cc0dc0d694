package github

import (
	"context"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-call HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate throttles API calls to ~1.2 req/sec, well under the
	// authenticated limit of 5000/hour.
	ProactiveRate = 1.2
)

// Client wraps the go-github client with proactive rate limiting.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
}

// newClient creates an authenticated GitHub API client.
func newClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	return &Client{
		gh:      gh.NewClient(tc),
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// wait blocks until the rate limiter admits another API call.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}
