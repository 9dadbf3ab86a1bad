package typocheck_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrycodes/typotrace/pkg/typocheck"
)

func newClient(t *testing.T, server *httptest.Server, timeout string) *typocheck.Client {
	t.Helper()

	cfg := &typocheck.Config{BaseURL: server.URL + "/", Timeout: timeout}
	require.NoError(t, cfg.Finalize(nil))

	client, err := typocheck.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestSubmitSendsMultipartFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.7", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"original_filename":"report.pdf","status":"success","message":"queued","job_id":"abc123"}`))
	}))
	defer server.Close()

	client := newClient(t, server, "5s")
	doc := typocheck.NewDocument("report.pdf", "application/pdf", []byte("%PDF-1.7"))

	result, err := client.Submit(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", result.Filename)
	assert.Equal(t, typocheck.SubmitSuccess, result.Status)
	assert.Equal(t, "abc123", result.JobID)
	assert.True(t, result.Accepted())
}

func TestSubmitNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"storage unavailable"}`))
	}))
	defer server.Close()

	client := newClient(t, server, "5s")
	_, err := client.Submit(context.Background(), typocheck.NewDocument("a.pdf", "", []byte("x")))

	var terr *typocheck.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "submit", terr.Op)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.ErrorIs(t, err, typocheck.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestSubmitNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newClient(t, server, "5s")
	server.Close()

	_, err := client.Submit(context.Background(), typocheck.NewDocument("a.pdf", "", []byte("x")))

	var terr *typocheck.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
}

func TestStatusDecodesSnapshotVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want typocheck.Snapshot
	}{
		{
			name: "processing",
			body: `{"status":"processing","progress":40,"message":"checking","error":"ignored","result":{"total_typos":1}}`,
			want: typocheck.Snapshot{Status: typocheck.StatusProcessing, Progress: 40, Message: "checking"},
		},
		{
			name: "completed",
			body: `{"status":"completed","progress":97,"result":{"total_pages":3,"total_typos":7,"total_words":892,"total_foreign_words":2}}`,
			want: typocheck.Snapshot{
				Status:   typocheck.StatusCompleted,
				Progress: 100,
				Result: &typocheck.AnalysisResult{
					TotalPages:        3,
					TotalTypos:        7,
					TotalWords:        892,
					TotalForeignWords: 2,
				},
			},
		},
		{
			name: "error",
			body: `{"status":"error","error":"corrupt file","result":{"total_pages":1}}`,
			want: typocheck.Snapshot{Status: typocheck.StatusError, Error: "corrupt file"},
		},
		{
			name: "progress clamped",
			body: `{"status":"pending","progress":140}`,
			want: typocheck.Snapshot{Status: typocheck.StatusPending, Progress: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/progress/job-1", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			snap, err := newClient(t, server, "5s").Status(context.Background(), "job-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap)
		})
	}
}

func TestStatusUnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"exploded"}`))
	}))
	defer server.Close()

	_, err := newClient(t, server, "5s").Status(context.Background(), "job-1")

	var terr *typocheck.TransportError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, typocheck.ErrUnknownStatus)
}

func TestStatusMissingJobID(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newClient(t, server, "5s").Status(context.Background(), "")
	assert.ErrorIs(t, err, typocheck.ErrMissingJobID)
	assert.Zero(t, calls.Load())
}

func TestStatusTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newClient(t, server, "50ms").Status(context.Background(), "job-1")

	var terr *typocheck.TransportError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDownloadStreamsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/download/job-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="corrected_report.pdf"`)
		w.Write([]byte("%PDF-corrected"))
	}))
	defer server.Close()

	result, err := newClient(t, server, "5s").Download(context.Background(), "job-1")
	require.NoError(t, err)
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	require.NoError(t, err)

	assert.Equal(t, "%PDF-corrected", string(data))
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "corrected_report.pdf", result.Filename)
}

func TestDownloadEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := newClient(t, server, "5s").Download(context.Background(), "job-1")

	var terr *typocheck.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, errors.Is(err, typocheck.ErrEmptyResult))
}

func TestDownloadNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "job not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newClient(t, server, "5s").Download(context.Background(), "missing")

	var terr *typocheck.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	assert.Contains(t, err.Error(), "job not found")
}

func TestDownloadBodyOutlivesCallContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF"))
	}))
	defer server.Close()

	result, err := newClient(t, server, "5s").Download(context.Background(), "job-1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	data, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.NoError(t, result.Body.Close())
}
