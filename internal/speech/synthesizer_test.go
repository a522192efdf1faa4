package speech

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_EncodesBody(t *testing.T) {
	payload := []byte("fake-mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bill saved. Total is 68 rupees.", r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	s := NewSynthesizer(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
	audio, err := s.Synthesize(context.Background(), "Bill saved. Total is 68 rupees.")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), audio)
}

func TestSynthesize_Failures(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		s := NewSynthesizer(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
		_, err := s.Synthesize(context.Background(), "hello")
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		s := NewSynthesizer(Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
		_, err := s.Synthesize(context.Background(), "hello")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		s := NewSynthesizer(Config{BaseURL: srv.URL, Timeout: 30 * time.Millisecond}, nil)
		_, err := s.Synthesize(context.Background(), "hello")
		assert.Error(t, err)
	})
}
