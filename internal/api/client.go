// Package api is the HTTP transport shared by every outbound call: the
// rewards API and the xalyon data service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/ppiankov/pointclaim/internal/model"
	"github.com/ppiankov/pointclaim/internal/util"
	"github.com/ppiankov/pointclaim/internal/worker"
)

// Request describes one outbound call
type Request struct {
	URL       string
	Query     map[string]string
	Token     string // Sent as "Authorization: Bearer <token>" when set
	Body      any    // JSON-encoded for POST
	Anonymous bool   // Skip the identifying headers
}

// Response is the raw outcome of a call that reached the server
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the server answered with HTTP 200. Any other status,
// including other 2xx codes, counts as a failure.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Client issues requests with the app's identifying headers
type Client struct {
	http     *resty.Client
	identity model.IdentityConfig
}

// NewClient creates a client from HTTP and identity settings
func NewClient(httpCfg model.HTTPConfig, identity model.IdentityConfig, log logrus.FieldLogger) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	client := resty.New()
	client.SetCookieJar(jar)
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy)
	client.SetTransport(transport)
	if httpCfg.Timeout > 0 {
		client.SetTimeout(httpCfg.Timeout)
	}
	if log != nil {
		client.SetLogger(log)
	}

	limiter := worker.NewLimiter(httpCfg.RequestsPerSecond, httpCfg.Burst)
	for _, hr := range httpCfg.HostRates {
		limiter.SetHostRate(hr.Host, hr.RequestsPerSecond, hr.Burst)
	}
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context(), req.URL)
	})

	return &Client{http: client, identity: identity}, nil
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, req Request) (*Response, error) {
	return c.do(ctx, http.MethodGet, req)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, req Request) (*Response, error) {
	return c.do(ctx, http.MethodPost, req)
}

func (c *Client) do(ctx context.Context, method string, req Request) (*Response, error) {
	r := c.http.R().SetContext(ctx)

	if !req.Anonymous {
		r.SetHeaders(map[string]string{
			"User-Agent":      c.identity.UserAgent,
			"X-Server-Select": c.identity.ServerSelect,
			"Device-Name":     c.identity.DeviceName,
		})
	}
	if req.Token != "" {
		r.SetAuthToken(req.Token)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
