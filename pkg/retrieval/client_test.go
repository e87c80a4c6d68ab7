package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/course_7/search", r.URL.Path)

		var body struct {
			Query string `json:"query"`
			TopK  int    `json:"top_k"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "What is osmosis?", body.Query)
		require.Equal(t, 3, body.TopK)

		_ = json.NewEncoder(w).Encode(searchResponse{Passages: []Passage{
			{Text: "Osmosis is the movement of water.", Score: 0.91},
			{Text: "Across a semipermeable membrane.", Score: 0.82},
		}})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, TopK: 3}, CourseCollection(7))
	require.NoError(t, err)

	passages, err := client.Search(context.Background(), "What is osmosis?")
	require.NoError(t, err)
	require.Len(t, passages, 2)
	require.Equal(t, "Osmosis is the movement of water.", passages[0].Text)
}

func TestClientSearchEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL}, "course_1")
	require.NoError(t, err)

	passages, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, passages)
}

func TestRegistryReusesClients(t *testing.T) {
	built := 0
	registry := NewRegistryWithFactory(func(collection string) (Searcher, error) {
		built++
		return &fakeCollectionSearcher{collection: collection}, nil
	})

	first, err := registry.For("course_1")
	require.NoError(t, err)
	second, err := registry.For("course_1")
	require.NoError(t, err)
	require.Same(t, first.(*fakeCollectionSearcher), second.(*fakeCollectionSearcher))
	require.Equal(t, 1, built)

	_, err = registry.For("course_2")
	require.NoError(t, err)
	require.Equal(t, 2, built)
}

func TestRegistryPropagatesFactoryError(t *testing.T) {
	boom := errors.New("bad endpoint")
	registry := NewRegistryWithFactory(func(string) (Searcher, error) {
		return nil, boom
	})

	_, err := registry.For("course_1")
	require.ErrorIs(t, err, boom)
}

func TestCourseCollection(t *testing.T) {
	require.Equal(t, "course_42", CourseCollection(42))
}

type fakeCollectionSearcher struct {
	collection string
}

func (f *fakeCollectionSearcher) Search(context.Context, string) ([]Passage, error) {
	return nil, nil
}
