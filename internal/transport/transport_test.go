package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/retry"
	"github.com/sfcore/salesforce/internal/transport"
	"github.com/sfcore/salesforce/sferrors"
)

func TestExecute_SuccessReturnsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("ETag", `"abc123"`)
		w.Header().Set("Sforce-Limit-Info", "api-usage=10/15000")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := transport.New(transport.Config{
		HTTPClient:  srv.Client(),
		Credentials: credentials.NewStaticCredentials("tok", srv.URL),
	})

	resp, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL + "/x"})
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, resp.ETag)
	usage, ok := resp.Usage()
	require.True(t, ok)
	assert.Equal(t, 10, usage.Used)
	assert.Equal(t, 15000, usage.Limit)
}

func TestExecute_RetriesOnServerErrorThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := transport.New(transport.Config{
		HTTPClient:  srv.Client(),
		Credentials: credentials.NewStaticCredentials("tok", srv.URL),
		Policy: retry.Policy{
			MaxAttempts:  5,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Strategy:     retry.Constant,
		},
	})

	_, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecute_NonRetryableErrorReturnsImmediately(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`[{"message":"not found","errorCode":"NOT_FOUND"}]`))
	}))
	defer srv.Close()

	c := transport.New(transport.Config{
		HTTPClient:  srv.Client(),
		Credentials: credentials.NewStaticCredentials("tok", srv.URL),
	})

	_, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	var sfErr *sferrors.Error
	require.ErrorAs(t, err, &sfErr)
	assert.Equal(t, sferrors.KindSalesforceAPI, sfErr.Kind)
	assert.Equal(t, "NOT_FOUND", sfErr.ErrorCode)
}

func TestExecute_ErrorBody_SingleObjectEnvelopeTakesPriorityOverStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such record","errorCode":"ENTITY_IS_DELETED"}`))
	}))
	defer srv.Close()

	c := transport.New(transport.Config{
		HTTPClient:  srv.Client(),
		Credentials: credentials.NewStaticCredentials("tok", srv.URL),
	})

	_, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL})
	require.Error(t, err)
	var sfErr *sferrors.Error
	require.ErrorAs(t, err, &sfErr)
	assert.Equal(t, sferrors.KindSalesforceAPI, sfErr.Kind)
	assert.Equal(t, "ENTITY_IS_DELETED", sfErr.ErrorCode)
}

func TestExecute_ErrorBody_FallsBackToStatusMappingWhenNotAnEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html>not found</html>`))
	}))
	defer srv.Close()

	c := transport.New(transport.Config{
		HTTPClient:  srv.Client(),
		Credentials: credentials.NewStaticCredentials("tok", srv.URL),
	})

	_, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL})
	require.Error(t, err)
	var sfErr *sferrors.Error
	require.ErrorAs(t, err, &sfErr)
	assert.Equal(t, sferrors.KindNotFound, sfErr.Kind)
}

func TestExecute_RefreshesCredentialsOnceOn401(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	refreshed := false
	creds := credentials.NewCachedCredentials(
		&credentials.TokenResponse{AccessToken: "stale", InstanceURL: srv.URL},
		func() (*credentials.TokenResponse, error) {
			refreshed = true
			return &credentials.TokenResponse{AccessToken: "fresh", InstanceURL: srv.URL}, nil
		},
	)

	c := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: creds})
	_, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, 2, attempts)
}

func TestDecodeJSON_WrapsMalformedBodyAsKindJSON(t *testing.T) {
	resp := &transport.Response{Body: []byte("not json")}
	var out struct{}
	err := transport.DecodeJSON(resp, &out)
	require.Error(t, err)
	var sfErr *sferrors.Error
	require.ErrorAs(t, err, &sfErr)
	assert.Equal(t, sferrors.KindJSON, sfErr.Kind)
}

func TestSetCredentials_SwapsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer new-token", r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	c := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("old-token", srv.URL)})
	c.SetCredentials(credentials.NewStaticCredentials("new-token", srv.URL))
	assert.Equal(t, "new-token", c.AccessToken())

	_, err := c.Execute(context.Background(), transport.Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
}
