package maven_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/droidcfg/internal/adapters/maven"
	"go.trai.ch/droidcfg/internal/core/domain"
)

const appcompatMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>androidx.appcompat</groupId>
  <artifactId>appcompat</artifactId>
  <versioning>
    <latest>1.7.0</latest>
    <release>1.7.0</release>
    <versions>
      <version>1.6.0</version>
      <version>1.6.1</version>
      <version>1.7.0</version>
    </versions>
    <lastUpdated>20240529192345</lastUpdated>
  </versioning>
</metadata>`

const materialMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>com.google.android.material</groupId>
  <artifactId>material</artifactId>
  <versioning>
    <versions>
      <version>1.10.0</version>
      <version>1.11.0</version>
    </versions>
  </versioning>
</metadata>`

var (
	appcompat = domain.Coordinate{Group: "androidx.appcompat", Artifact: "appcompat", Version: "1.6.1"}
	material  = domain.Coordinate{Group: "com.google.android.material", Artifact: "material", Version: "1.11.0"}
)

func newFetcher() *maven.Fetcher {
	return maven.NewFetcher(maven.WithBaseDelay(time.Millisecond), maven.WithMaxRetries(2))
}

func TestMetadataURL(t *testing.T) {
	assert.Equal(t,
		"https://dl.google.com/android/maven2/androidx/appcompat/appcompat/maven-metadata.xml",
		maven.MetadataURL("https://dl.google.com/android/maven2/", appcompat))
}

func TestParseMetadata(t *testing.T) {
	m, err := maven.ParseMetadata([]byte(appcompatMetadata))
	require.NoError(t, err)

	assert.Equal(t, "androidx.appcompat", m.GroupID)
	assert.True(t, m.HasVersion("1.6.1"))
	assert.False(t, m.HasVersion("1.6.2"))
	assert.Equal(t, "1.7.0", m.LatestVersion())

	m, err = maven.ParseMetadata([]byte(materialMetadata))
	require.NoError(t, err)
	assert.Equal(t, "1.11.0", m.LatestVersion(), "falls back to the last listed version")

	_, err = maven.ParseMetadata([]byte("<metadata><versioning>"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrRepositoryParseFailed.Error())
}

func TestFetcher_Get(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("User-Agent"), "droidcfg/")
			_, _ = w.Write([]byte(appcompatMetadata))
		}))
		defer server.Close()

		body, err := newFetcher().Get(t.Context(), server.URL+"/maven-metadata.xml")
		require.NoError(t, err)
		assert.Equal(t, appcompatMetadata, string(body))
	})

	t.Run("not found is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newFetcher().Get(t.Context(), server.URL)
		require.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			switch calls.Add(1) {
			case 1:
				w.WriteHeader(http.StatusServiceUnavailable)
			case 2:
				w.WriteHeader(http.StatusTooManyRequests)
			default:
				_, _ = w.Write([]byte(appcompatMetadata))
			}
		}))
		defer server.Close()

		body, err := newFetcher().Get(t.Context(), server.URL)
		require.NoError(t, err)
		assert.NotEmpty(t, body)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newFetcher().Get(t.Context(), server.URL)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrRepositoryRequestFailed.Error())
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newFetcher().Get(t.Context(), server.URL)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrRepositoryRequestFailed.Error())
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(t.Context())
		f := maven.NewFetcher(maven.WithBaseDelay(time.Hour), maven.WithMaxRetries(3))
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err := f.Get(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestBreakerFetcher(t *testing.T) {
	t.Run("trips after repeated failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		bf := maven.NewBreakerFetcher(maven.NewFetcher(maven.WithMaxRetries(0)))
		for range 5 {
			_, err := bf.Get(t.Context(), server.URL)
			require.Error(t, err)
		}

		_, err := bf.Get(t.Context(), server.URL)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrRepositoryUnavailable.Error())
		assert.Equal(t, int32(5), calls.Load())
		assert.True(t, bf.Tripped(server.Listener.Addr().String()))
	})

	t.Run("not found does not trip", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		bf := maven.NewBreakerFetcher(maven.NewFetcher(maven.WithMaxRetries(0)))
		for range 10 {
			_, err := bf.Get(t.Context(), server.URL)
			require.ErrorIs(t, err, domain.ErrArtifactNotFound)
		}
		assert.False(t, bf.Tripped(server.Listener.Addr().String()))
	})
}

func newRepositoryServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/google/androidx/appcompat/appcompat/maven-metadata.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(appcompatMetadata))
	})
	mux.HandleFunc("/central/com/google/android/material/material/maven-metadata.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(materialMetadata))
	})
	mux.HandleFunc("/broken/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRepository_Check(t *testing.T) {
	server := newRepositoryServer(t)
	google := server.URL + "/google"
	central := server.URL + "/central"
	broken := server.URL + "/broken"

	repo := maven.NewRepository(maven.NewBreakerFetcher(newFetcher()))

	t.Run("found in first repository", func(t *testing.T) {
		report, err := repo.Check(t.Context(), []string{google, central}, appcompat)
		require.NoError(t, err)
		assert.True(t, report.Found)
		assert.Equal(t, google, report.Repository)
		assert.Equal(t, "1.7.0", report.Latest)
	})

	t.Run("found in later repository", func(t *testing.T) {
		report, err := repo.Check(t.Context(), []string{google, central}, material)
		require.NoError(t, err)
		assert.True(t, report.Found)
		assert.Equal(t, central, report.Repository)
	})

	t.Run("missing version", func(t *testing.T) {
		missing := appcompat
		missing.Version = "1.6.2"

		report, err := repo.Check(t.Context(), []string{google, central}, missing)
		require.NoError(t, err)
		assert.False(t, report.Found)
		assert.Equal(t, "1.7.0", report.Latest)
	})

	t.Run("unknown artifact", func(t *testing.T) {
		unknown := domain.Coordinate{Group: "com.example", Artifact: "nothing", Version: "1.0.0"}

		report, err := repo.Check(t.Context(), []string{google, central}, unknown)
		require.NoError(t, err)
		assert.False(t, report.Found)
		assert.Empty(t, report.Latest)
	})

	t.Run("failing repository is skipped", func(t *testing.T) {
		report, err := repo.Check(t.Context(), []string{broken, google}, appcompat)
		require.NoError(t, err)
		assert.True(t, report.Found)
	})

	t.Run("failing repository is reported when nothing is found", func(t *testing.T) {
		_, err := repo.Check(t.Context(), []string{broken}, material)
		require.Error(t, err)
	})
}
