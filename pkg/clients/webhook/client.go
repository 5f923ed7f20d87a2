package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/branchpulse/branchpulse/internal/domain/models"
)

// Client delivers analytics digests to an external endpoint.
type Client interface {
	SendDigest(ctx context.Context, digest models.Digest) error
}

// APIClient is a resty-backed implementation of Client with retry.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a digest webhook client for the given endpoint URL.
func NewClient(url string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		url:        url,
	}
}

// SendDigest posts the digest JSON, retrying transient failures with
// exponential backoff for up to a minute. 4xx responses are not retried.
func (c *APIClient) SendDigest(ctx context.Context, digest models.Digest) error {
	operation := func() error {
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(digest).
			Post(c.url)
		if err != nil {
			return fmt.Errorf("post digest: %w", err)
		}

		status := resp.StatusCode()
		switch {
		case status < http.StatusBadRequest:
			return nil
		case status < http.StatusInternalServerError:
			return backoff.Permanent(fmt.Errorf("digest webhook rejected: status=%d body=%s", status, resp.String()))
		default:
			return fmt.Errorf("digest webhook error: status=%d", status)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Minute

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}
