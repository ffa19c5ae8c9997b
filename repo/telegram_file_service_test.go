package repo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFileIDToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/getFile", r.URL.Path)
		switch r.URL.Query().Get("file_id") {
		case "photo-1":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"file_id":"photo-1","file_size":10,"file_path":"photos/file_1.jpg"}}`))
		case "gone":
			_, _ = w.Write([]byte(`{"ok":false}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	s := NewFileService("TOKEN")
	s.BaseURL = srv.URL
	s.Client = srv.Client()

	got, err := s.ConvertFileIDToURL(context.Background(), "photo-1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/file/botTOKEN/photos/file_1.jpg", got)

	_, err = s.ConvertFileIDToURL(context.Background(), "gone")
	assert.ErrorContains(t, err, "couldn't retrieve file path")

	_, err = s.ConvertFileIDToURL(context.Background(), "garbage")
	assert.ErrorContains(t, err, "error unmarshaling response")
}

func TestConvertFileIDToURL_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	s := NewFileService("TOKEN")
	s.BaseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ConvertFileIDToURL(ctx, "photo-1")
	assert.ErrorContains(t, err, "error getting file path")
}
