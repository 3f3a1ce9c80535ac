package storage

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers just enough of the S3 API for bucket checks and single PUTs.
type fakeS3 struct {
	mu   sync.Mutex
	puts []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		if strings.TrimSuffix(r.URL.Path, "/") == "/letters" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		f.mu.Lock()
		f.puts = append(f.puts, r.URL.Path)
		f.mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestStorePut(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	store, err := New(t.Context(), u.Host, "us-east-1", "letters", "access", "secret", false)
	require.NoError(t, err)
	require.NoError(t, store.Check(t.Context()))

	got, err := store.Put(t.Context(), "letters/s1/l1.txt", []byte("Dear Claims Review Team"))
	require.NoError(t, err)
	assert.Equal(t, "http://"+u.Host+"/letters/letters/s1/l1.txt", got)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"/letters/letters/s1/l1.txt"}, fake.puts)
}
