package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

/* Exchange carries one inbound request through the pipeline stages
 * Stages communicate by mutating the exchange; the underlying request
 * is only ever normalized, never semantically altered.
 */
type Exchange struct {
	Request *http.Request

	// Host is the effective host after forwarded-host adoption
	Host string

	// Scheme is the effective scheme after forwarded-proto adoption
	Scheme string

	// HealthCheck marks infrastructure probes so downstream logging
	// can suppress the noise
	HealthCheck bool

	body     []byte
	buffered bool
}

// NewExchange wraps an inbound request
func NewExchange(r *http.Request) *Exchange {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return &Exchange{
		Request: r,
		Host:    r.Host,
		Scheme:  scheme,
	}
}

/* BufferedBody reads and memoizes the request body, resetting the
 * request's reader so the business handler can read it again. Stages
 * that only need headers never trigger the buffering.
 */
func (e *Exchange) BufferedBody() ([]byte, error) {
	if e.buffered {
		return e.body, nil
	}
	if e.Request.Body == nil {
		e.buffered = true
		return nil, nil
	}

	body, err := io.ReadAll(e.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("buffering request body: %w", err)
	}
	e.Request.Body.Close()
	e.Request.Body = io.NopCloser(bytes.NewReader(body))

	// http.NoBody and friends read as zero bytes; treat that the same
	// as no body at all
	if len(body) == 0 {
		body = nil
	}
	e.body = body
	e.buffered = true
	return body, nil
}

// Params returns the request parameters the carrier signed: the parsed
// form body for POSTs, the query string otherwise
func (e *Exchange) Params() (url.Values, error) {
	if e.Request.Method == http.MethodPost &&
		strings.Contains(e.Request.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		body, err := e.BufferedBody()
		if err != nil {
			return nil, err
		}
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("parsing form body: %w", err)
		}
		return values, nil
	}
	return e.Request.URL.Query(), nil
}

// URL reconstructs the absolute request URL using the effective
// scheme and host
func (e *Exchange) URL() string {
	return fmt.Sprintf("%s://%s%s", e.Scheme, e.Host, e.Request.URL.RequestURI())
}
