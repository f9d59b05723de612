// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the outbound clients.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// maxDrain caps how much of an error body is read before closing it so the
// connection can be reused.
const maxDrain = 64 << 10

// StatusError reports a response whose status code is outside 2xx.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Do executes req bound to ctx. Responses outside 2xx are drained, closed,
// and reported as *StatusError; the caller owns the body of any response
// returned without error.
func Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "%s %s", req.Method, req.URL.Redacted())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
		resp.Body.Close()
		return nil, pkgerrors.WithStack(&StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()})
	}
	return resp, nil
}

// GetJSON issues a GET to rawURL with the given headers and decodes the
// JSON body into v.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "creating request")
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := Do(ctx, client, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return pkgerrors.Wrapf(err, "decoding response from %s", req.URL.Redacted())
	}
	return nil
}
