package quranapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchVerseByKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verses/by_key/2:255", r.URL.Path)
		assert.Equal(t, "20,131", r.URL.Query().Get("translations"))
		w.Write([]byte(`{"verse":{"id":262,"verse_key":"2:255","text_uthmani":"text","translations":[{"resource_id":20,"text":"tr"}]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTranslations(20, 131))
	v, err := c.FetchVerseByKey(context.Background(), "2:255")
	require.NoError(t, err)
	assert.Equal(t, 262, v.ID)
	assert.Equal(t, "2:255", v.VerseKey)
	require.Len(t, v.Translations, 1)
	assert.Equal(t, "tr", v.Translations[0].Text)
}

func TestClient_FetchVerseByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verses/by_id/262", r.URL.Path)
		w.Write([]byte(`{"verse":{"id":262,"verse_key":"2:255","text_uthmani":"text"}}`))
	}))
	defer srv.Close()

	v, err := New(srv.URL).FetchVerseByID(context.Background(), 262)
	require.NoError(t, err)
	assert.Equal(t, "2:255", v.VerseKey)
}

func TestClient_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New(srv.URL).FetchVerseByKey(context.Background(), "999:1")
		assert.Error(t, err)
	})

	t.Run("missing verse in body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL).FetchVerseByKey(context.Background(), "1:1")
		assert.Error(t, err)
	})
}

func TestClient_ChapterIndexCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"chapters":[{"id":1,"verses_count":7,"name_simple":"Al-Fatihah"},{"id":2,"verses_count":286,"name_simple":"Al-Baqarah"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	first, err := c.FetchChapterIndex(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Al-Baqarah", first[1].DisplayName)

	second, err := c.FetchChapterIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}
