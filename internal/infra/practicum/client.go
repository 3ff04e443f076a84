// Package practicum talks to the Yandex Practicum homework_statuses API.
package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"homework_status_bot/internal/domain/homework"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// Client issues authenticated status requests. It never retries; the poll
// cadence is the only retry mechanism.
type Client struct {
	http     *resty.Client
	endpoint string
	token    string
	logger   *logrus.Entry
}

// New builds a Client on top of a fresh resty client.
func New(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	}
	return NewWithClient(r, endpoint, token, logger)
}

// NewWithClient lets callers inject the resty client, e.g. one wired to httpmock.
func NewWithClient(r *resty.Client, endpoint, token string, logger *logrus.Entry) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{http: r, endpoint: endpoint, token: token, logger: logger}
}

// Fetch returns the decoded body of GET <endpoint>?from_date=<checkpoint>.
// The structure of the body is not checked here.
func (c *Client) Fetch(ctx context.Context, checkpoint int64) (any, error) {
	logCtx := c.logger.WithField("from_date", checkpoint)
	logCtx.Debug("Requesting homework statuses")

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "OAuth "+c.token).
		SetQueryParam("from_date", strconv.FormatInt(checkpoint, 10)).
		Get(c.endpoint)
	if err != nil {
		fetchErr := &homework.TransportError{Cause: err}
		logCtx.WithError(fetchErr).Error("Homework API request failed")
		return nil, fetchErr
	}

	if resp.StatusCode() != http.StatusOK {
		fetchErr := &homework.UpstreamStatusError{StatusCode: resp.StatusCode()}
		logCtx.WithError(fetchErr).Error("Homework API returned unexpected status")
		return nil, fetchErr
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		fetchErr := &homework.ShapeError{Reason: "response body is not valid JSON: " + err.Error()}
		logCtx.WithError(fetchErr).Error("Homework API returned a malformed body")
		return nil, fetchErr
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(new(any)); err != io.EOF {
		fetchErr := &homework.ShapeError{Reason: "response body has trailing data after the JSON value"}
		logCtx.WithError(fetchErr).Error("Homework API returned a malformed body")
		return nil, fetchErr
	}

	logCtx.Debug("Homework statuses received")
	return payload, nil
}
