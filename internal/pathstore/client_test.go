package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestPutAndGetOutline(t *testing.T) {
	stored := map[string]json.RawMessage{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		key := r.URL.Path[len("/kv/"):]
		switch r.Method {
		case http.MethodPut:
			var req struct {
				Value json.RawMessage `json:"value"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			stored[key] = req.Value
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			v, ok := stored[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"key_path": key, "value": v})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	defer c.Close()

	out := StoredOutline{
		DocID:    "doc1",
		Filename: "report.pdf",
		Title:    "Annual Report",
		Outline:  []doctree.OutlineEntry{{Level: "H1", Text: "1. Introduction", Page: 1}},
	}
	require.NoError(t, c.PutOutline(context.Background(), out))
	assert.Contains(t, stored, "outlines/doc1")

	got, err := c.GetOutline(context.Background(), "doc1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, out, *got)

	missing, err := c.GetOutline(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "k").PutNode(context.Background(), "outlines/x", NodeRequest{Value: 1})
			require.Error(t, err)
			var re *RetryableError
			assert.Equal(t, tt.retryable, errors.As(err, &re))
		})
	}
}

func TestListOutlineIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kv/outlines/*", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"nodes":[{"key_path":"outlines.a1","value":{}},{"key_path":"outlines/b2","value":{}}]}`))
	}))
	defer srv.Close()

	ids, err := NewClient(srv.URL, "k").ListOutlineIDs(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)
}

func TestRetryAfterHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k").PutNode(context.Background(), "outlines/x", NodeRequest{Value: 1})
	var re *RetryableError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 7*time.Second, re.RetryAfter)

	assert.Zero(t, retryAfter(""))
	assert.Zero(t, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestValidDocID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"doc1", true},
		{"b94d27b9934d3e08", true},
		{"handbook-v1_2", true},
		{"", false},
		{"../config", false},
		{"a/b", false},
		{"a.b", false},
		{"-lead", false},
		{"sp ace", false},
		{`back\slash`, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidDocID(tt.id))
		})
	}
}

func TestInvalidDocIDNeverReachesServer(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.PutOutline(context.Background(), StoredOutline{DocID: "../config"})
	assert.ErrorIs(t, err, ErrInvalidDocID)

	_, err = c.GetOutline(context.Background(), "a/b")
	assert.ErrorIs(t, err, ErrInvalidDocID)
	assert.Zero(t, calls)
}
