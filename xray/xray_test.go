package xray

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenValidCredentials_WhenAuthenticating_ThenReturnsToken(t *testing.T) {
	// Given
	var received Credentials
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`"token-123"`))
	}))
	defer server.Close()

	client := NewClientWithHTTPClient(server.Client(), server.URL+"/authenticate", server.URL+"/import", Credentials{ClientID: "id", ClientSecret: "secret"})

	// When
	token, err := client.Authenticate(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
	assert.Equal(t, Credentials{ClientID: "id", ClientSecret: "secret"}, received)
}

func Test_GivenRejectedCredentials_WhenAuthenticating_ThenReturnsXrayError(t *testing.T) {
	// Given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Authentication failed. Invalid client credentials!"}`))
	}))
	defer server.Close()

	client := NewClientWithHTTPClient(server.Client(), server.URL, server.URL, Credentials{})

	// When
	_, err := client.Authenticate(context.Background())

	// Then
	var xrayErr *Error
	require.True(t, errors.As(err, &xrayErr))
	assert.Equal(t, http.StatusUnauthorized, xrayErr.StatusCode)
	assert.Equal(t, "authenticate", xrayErr.Op)
}

func Test_GivenMergedReport_WhenImporting_ThenPostsItToTheTestExecution(t *testing.T) {
	// Given
	report := []byte(`<testsuites tests="1"></testsuites>`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/import/execution/junit", r.URL.Path)
		assert.Equal(t, "FOS", r.URL.Query().Get("projectKey"))
		assert.Equal(t, "FOS-1200", r.URL.Query().Get("testExecKey"))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "text/xml", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, report, body)

		_, _ = w.Write([]byte(`{"id":"10400","key":"FOS-1200","self":"https://viaphoton.atlassian.net/rest/api/2/issue/10400"}`))
	}))
	defer server.Close()

	client := NewClientWithHTTPClient(server.Client(), server.URL, server.URL+"/import/execution/junit?projectKey=FOS", Credentials{})

	// When
	result, err := client.ImportResults(context.Background(), "token-123", "FOS-1200", report)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "FOS-1200", result.Key)
	assert.Equal(t, "10400", result.ID)
}

func Test_GivenServerError_WhenImporting_ThenReturnsXrayError(t *testing.T) {
	// Given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Error parsing the junit file"}`))
	}))
	defer server.Close()

	client := NewClientWithHTTPClient(server.Client(), server.URL, server.URL, Credentials{})

	// When
	_, err := client.ImportResults(context.Background(), "token", "FOS-1", nil)

	// Then
	var xrayErr *Error
	require.True(t, errors.As(err, &xrayErr))
	assert.Equal(t, http.StatusBadRequest, xrayErr.StatusCode)
	assert.Contains(t, xrayErr.Error(), "Error parsing the junit file")
}

func Test_GivenUnreachableServer_WhenImporting_ThenReturnsXrayError(t *testing.T) {
	// Given
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	client := NewClient(target, target, Credentials{})

	// When
	_, err := client.ImportResults(context.Background(), "token", "FOS-1", nil)

	// Then
	var xrayErr *Error
	require.True(t, errors.As(err, &xrayErr))
	assert.Error(t, xrayErr.Err)
}
