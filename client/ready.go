package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// AwaitReady waits until the admin API answers GET on its base URL with a 200 status, or the
// timeout elapses. Progress dots are written to output as in other harness startup output.
//
// This is only used before the test run; requests made by scenarios are never retried.
func (c *AdminClient) AwaitReady(ctx context.Context, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to gateway admin API at %s", c.baseURL)
	defer fmt.Fprintln(output)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond * 100
	b.MaxInterval = time.Second
	b.MaxElapsedTime = timeout

	check := func() error {
		fmt.Fprint(output, ".")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("admin API returned status code %d", resp.StatusCode)
		}
		return nil
	}

	if err := backoff.Retry(check, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("gateway admin API did not become ready, result of last query was: %w", err)
	}
	return nil
}
