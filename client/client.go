package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gatewayadmin/admin-contract-tests/admindef"
	"github.com/gatewayadmin/admin-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultRequestTimeout applies to every request unless the AdminClient was given a different one.
const DefaultRequestTimeout = time.Second * 30

// AdminClient sends requests to the gateway admin API. It is the only handle the test suite
// has on the gateway's state.
type AdminClient struct {
	baseURL    string
	workspace  string
	httpClient *http.Client
}

// Request describes one HTTP request to the admin API. Path is relative to the workspace,
// for instance "/services".
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	// AcceptAnyStatus means the caller will inspect the status itself. Without it, a status
	// outside the 2xx/3xx range is a failure of the calling scenario.
	AcceptAnyStatus bool
}

// Response is the status and body of a completed request.
type Response struct {
	Status int
	Body   ldvalue.Value // null if the body was empty or not JSON
	Raw    []byte
}

// NewAdminClient creates an AdminClient. Requests go to baseURL + "/" + workspace + path.
func NewAdminClient(baseURL, workspace string, timeout time.Duration) *AdminClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &AdminClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		workspace:  strings.Trim(workspace, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the admin API base URL without the workspace.
func (c *AdminClient) BaseURL() string {
	return c.baseURL
}

// Workspace returns the workspace that all resource paths are relative to.
func (c *AdminClient) Workspace() string {
	return c.workspace
}

func (c *AdminClient) resourceURL(path string, query url.Values) string {
	u := c.baseURL
	if c.workspace != "" {
		u += "/" + c.workspace
	}
	u += path
	if len(query) != 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends a request. It returns an error only if no HTTP response was received or the body
// could not be read; any HTTP status is returned as a Response, regardless of AcceptAnyStatus.
func (c *AdminClient) Do(ctx context.Context, r Request, logger framework.Logger) (*Response, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}

	var body io.Reader
	var bodyData []byte
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request body: %w", r.Method, r.Path, err)
		}
		bodyData = data
		body = bytes.NewBuffer(data)
	}

	target := c.resourceURL(r.Path, r.Query)
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if bodyData != nil {
		req.Header.Set("Content-Type", "application/json")
		logger.Printf("%s %s with body: %s", r.Method, target, string(bodyData))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", r.Method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body for %s %s: %w", r.Method, target, err)
	}

	result := &Response{Status: resp.StatusCode, Raw: raw, Body: ldvalue.Null()}
	if len(raw) != 0 && json.Valid(raw) {
		result.Body = ldvalue.Parse(raw)
	}
	logger.Printf("%s %s -> %d", r.Method, target, resp.StatusCode)
	return result, nil
}

// IsSuccess returns true for a 2xx or 3xx status.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 400
}

// Decode unmarshals the raw response body into target.
func (r *Response) Decode(target interface{}) error {
	if len(r.Raw) == 0 {
		return fmt.Errorf("response with status %d had no body", r.Status)
	}
	if err := json.Unmarshal(r.Raw, target); err != nil {
		return fmt.Errorf("malformed response body (%s): %w", string(r.Raw), err)
	}
	return nil
}

// ListQuery converts list parameters to query parameters.
func ListQuery(p admindef.ListParams) url.Values {
	q := make(url.Values)
	if p.SortDesc {
		q.Set("sort_desc", "1")
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Name != "" {
		q.Set("name", p.Name)
	}
	if p.Offset != "" {
		q.Set("offset", p.Offset)
	}
	return q
}

// CollectionPath returns the path of a collection, such as "/services".
func CollectionPath(collection string) string {
	return "/" + collection
}

// EntityPath returns the path of one entity in a collection, addressed by name or ID.
func EntityPath(collection, nameOrID string) string {
	return "/" + collection + "/" + url.PathEscape(nameOrID)
}
