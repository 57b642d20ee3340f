package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/heatmap/points", r.URL.Path)
		assert.Equal(t, "logic,bias", r.URL.Query().Get("keywords"))
		assert.Equal(t, "2026-09-16", r.URL.Query().Get("start"))
		assert.Equal(t, "2026-10-16", r.URL.Query().Get("end"))
		assert.Equal(t, "-1", r.URL.Query().Get("min_sentiment"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		io.WriteString(w, `{"code":0,"message":"success","data":{"points":[{"id":1,"keyword":"logic","snapshot_date":"2026-10-01"}],"count":1}}`)
	}))
	defer srv.Close()

	f := models.DefaultHeatmapFilters(time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC))
	f.Keywords = []string{"logic", "bias"}

	points, err := New(srv.URL, "tok", time.Second).FetchPoints(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "logic", points[0].Keyword)
}

func TestFetchPoints_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream")
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second).FetchPoints(context.Background(), models.DefaultHeatmapFilters(time.Now()))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestTriggerAnalysis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.AnalysisRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Action == models.ActionGenerateHeatmap {
			assert.Equal(t, 50, req.BatchSize)
			io.WriteString(w, `{"success":true,"data":{"points_generated":3,"snapshots":1}}`)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success":false,"error":"invalid analysis action"}`)
	}))
	defer srv.Close()
	c := New(srv.URL, "", time.Second)

	env, err := c.TriggerAnalysis(context.Background(), models.ActionGenerateHeatmap, 50)
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"points_generated":3,"snapshots":1}`, string(env.Data))

	env, err = c.TriggerAnalysis(context.Background(), "bogus", 50)
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid analysis action", env.Error)
}

func TestTriggerAnalysis_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL, "", time.Second).TriggerAnalysis(context.Background(), models.ActionFullAnalysis, 50)
	assert.Error(t, err)
}
