package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatewayadmin/admin-contract-tests/admindef"
	"github.com/gatewayadmin/admin-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSendsJSONBodyToWorkspacePath(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithJSONResponse(map[string]interface{}{"id": "abc", "name": "service1"}, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAdminClient(server.URL+"/", "default", time.Second)
		resp, err := c.Do(context.Background(), Request{
			Method: "POST",
			Path:   "/services",
			Body:   map[string]string{"name": "service1"},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, "abc", resp.Body.GetByKey("id").StringValue())

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/default/services", r.Request.URL.Path)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"name":"service1"}`, string(r.Body))
	})
}

func TestDoReturnsErrorStatusWithoutError(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(409), func(server *httptest.Server) {
		c := NewAdminClient(server.URL, "default", time.Second)
		resp, err := c.Do(context.Background(), Request{Method: "POST", Path: "/services"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 409, resp.Status)
		assert.False(t, resp.IsSuccess())
		assert.True(t, resp.Body.IsNull())
	})
}

func TestDoEncodesQuery(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAdminClient(server.URL, "default", time.Second)
		query := ListQuery(admindef.ListParams{SortDesc: true, Size: 30, Name: "route 1"})
		_, err := c.Do(context.Background(), Request{Method: "GET", Path: "/routes", Query: query}, nil)
		require.NoError(t, err)

		r := <-requestsCh
		assert.Equal(t, "1", r.Request.URL.Query().Get("sort_desc"))
		assert.Equal(t, "30", r.Request.URL.Query().Get("size"))
		assert.Equal(t, "route 1", r.Request.URL.Query().Get("name"))
		assert.Empty(t, r.Request.URL.Query().Get("sort_by"))
	})
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	c := NewAdminClient(url, "default", time.Second)
	_, err := c.Do(context.Background(), Request{Method: "GET", Path: "/services"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET "+url+"/default/services failed")
}

func TestDoLogsStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(204), func(server *httptest.Server) {
		var logger framework.CapturingLogger
		c := NewAdminClient(server.URL, "default", time.Second)
		_, err := c.Do(context.Background(), Request{Method: "DELETE", Path: "/routes/x"}, &logger)
		require.NoError(t, err)
		require.Len(t, logger.Output(), 1)
		assert.Equal(t, "DELETE "+server.URL+"/default/routes/x -> 204", logger.Output()[0].Message)
	})
}

func TestDecode(t *testing.T) {
	resp := &Response{Status: 200, Raw: []byte(`{"data":[{"id":"1","name":"a","tags":["x"]}]}`)}
	var page admindef.Page
	require.NoError(t, resp.Decode(&page))
	assert.Equal(t, []admindef.Resource{{ID: "1", Name: "a", Tags: []string{"x"}}}, page.Data)

	assert.Error(t, (&Response{Status: 204}).Decode(&page))
	assert.Error(t, (&Response{Status: 200, Raw: []byte("<html>")}).Decode(&page))
}

func TestEntityPathEscapesName(t *testing.T) {
	assert.Equal(t, "/services/a%2Fb", EntityPath("services", "a/b"))
	assert.Equal(t, "/routes", CollectionPath("routes"))
}

func TestClassifyDeleteStatus(t *testing.T) {
	assert.Equal(t, Deleted, ClassifyDeleteStatus(204))
	assert.Equal(t, Deleted, ClassifyDeleteStatus(200))
	assert.Equal(t, ToleratedNotFound, ClassifyDeleteStatus(404))
	assert.Equal(t, ToleratedNotFound, ClassifyDeleteStatus(410))
	assert.Equal(t, UnexpectedFailure, ClassifyDeleteStatus(400))
	assert.Equal(t, UnexpectedFailure, ClassifyDeleteStatus(500))
	assert.Equal(t, "not found", ToleratedNotFound.String())
}

func TestDeleteResource(t *testing.T) {
	for _, status := range []int{204, 404, 500} {
		handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(status))
		httphelpers.WithServer(handler, func(server *httptest.Server) {
			c := NewAdminClient(server.URL, "default", time.Second)
			result, err := c.DeleteResource(context.Background(), "services", "service1", nil)
			require.NoError(t, err)
			assert.Equal(t, ClassifyDeleteStatus(status), result.Outcome)
			assert.Equal(t, status, result.Status)

			r := <-requestsCh
			assert.Equal(t, "DELETE", r.Request.Method)
			assert.Equal(t, "/default/services/service1", r.Request.URL.Path)
		})
	}
}

func TestAwaitReadySucceedsAfterUnavailable(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		httphelpers.HandlerWithStatus(503),
		httphelpers.HandlerWithStatus(503),
		httphelpers.HandlerWithStatus(200),
	)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var out bytes.Buffer
		c := NewAdminClient(server.URL, "default", time.Second)
		require.NoError(t, c.AwaitReady(context.Background(), time.Second*5, &out))
		assert.Contains(t, out.String(), "Connecting to gateway admin API at "+server.URL+"...")
	})
}

func TestAwaitReadyTimesOut(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		var out bytes.Buffer
		c := NewAdminClient(server.URL, "default", time.Second)
		err := c.AwaitReady(context.Background(), time.Millisecond*300, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code 503")
	})
}

func TestAwaitReadyStopsWhenCancelled(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := NewAdminClient(server.URL, "default", time.Second)
		err := c.AwaitReady(ctx, time.Minute, &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestNewAdminClientDefaultTimeout(t *testing.T) {
	c := NewAdminClient("http://localhost:8001/", "/default/", 0)
	assert.Equal(t, DefaultRequestTimeout, c.httpClient.Timeout)
	assert.Equal(t, "http://localhost:8001", c.BaseURL())
	assert.Equal(t, "default", c.Workspace())
}
