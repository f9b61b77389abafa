package client

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
)

// NewPollingHTTPClient returns an HTTP client retrying connection failures
// up to retryMax times.
func NewPollingHTTPClient(retryMax int, logger *log.Logger) *http.Client {
	return newRetryClient(retryMax, logger).StandardClient()
}

// NewCommandHTTPClient returns an HTTP client that never retries, so one
// confirmed command is exactly one request.
func NewCommandHTTPClient(logger *log.Logger) *http.Client {
	return newRetryClient(0, logger).StandardClient()
}

func newRetryClient(retryMax int, logger *log.Logger) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = logger
	retryClient.CheckRetry = connectionRetryPolicy
	return retryClient
}

// connectionRetryPolicy retries only when no response arrived. Any response,
// 5xx included, carries a JSON verdict the caller has to see.
func connectionRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
