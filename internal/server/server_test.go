package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/raftplot/internal/chart"
	"github.com/MalithGihan/raftplot/internal/store"
)

const stateTxt = `5
RaftState id: 1, log_last_index: 3,
RaftState id: 2, log_last_index: 3,
BreakLink 6
6
RaftState id: 1, log_last_index: 4,
RaftState id: 2, log_last_index: 4,
`

func newTestServer(t *testing.T) (*httptest.Server, *store.FS) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	ts := httptest.NewServer(New(st, chart.DefaultOptions()).Routes())
	t.Cleanup(ts.Close)
	return ts, st
}

func upload(t *testing.T, ts *httptest.Server, body string) string {
	resp, err := http.Post(ts.URL+"/traces", "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		OK      bool   `json:"ok"`
		TraceID string `json:"traceId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.True(t, out.OK)
	return out.TraceID
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadAndSummary(t *testing.T) {
	ts, _ := newTestServer(t)
	id := upload(t, ts, stateTxt)

	resp, err := http.Get(ts.URL + "/traces/" + id + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sum struct {
		Steps     []int `json:"steps"`
		Partition struct {
			Index int `json:"index"`
			X     int `json:"x"`
		} `json:"partition"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	assert.Equal(t, []int{5, 6}, sum.Steps)
	assert.Equal(t, 1, sum.Partition.Index)
	assert.Equal(t, 6, sum.Partition.X)

	resp2, err := http.Get(ts.URL + "/traces/" + id + "/summary?format=yaml")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "application/yaml", resp2.Header.Get("Content-Type"))
}

func TestUploadMultipart(t *testing.T) {
	ts, st := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "state.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(stateTxt))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/traces", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	ids, err := st.List()
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestUploadMalformed(t *testing.T) {
	ts, st := newTestServer(t)

	resp, err := http.Post(ts.URL+"/traces", "text/plain",
		strings.NewReader("5\nRaftState id: 9, log_last_index: notanumber,\n"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ids, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestChart(t *testing.T) {
	ts, _ := newTestServer(t)
	id := upload(t, ts, stateTxt)

	resp, err := http.Get(ts.URL + "/traces/" + id + "/chart.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp2, err := http.Get(ts.URL + "/traces/" + id + "/chart.bmp")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestChartInconsistent(t *testing.T) {
	ts, _ := newTestServer(t)
	id := upload(t, ts, "5\nRaftState id: 1, log_last_index: 3,\n6\n")

	resp, err := http.Get(ts.URL + "/traces/" + id + "/chart.svg")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnknownTrace(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/traces/nope/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAndDelete(t *testing.T) {
	ts, _ := newTestServer(t)
	id := upload(t, ts, stateTxt)

	resp, err := http.Get(ts.URL + "/traces")
	require.NoError(t, err)
	var out struct {
		Traces []string `json:"traces"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Equal(t, []string{id}, out.Traces)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/traces/"+id, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/traces/" + id + "/chart.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
