package mongodb

import (
	"context"
	"testing"

	"movieapi/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterDocument(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.Equal(t, bson.D{}, filterDocument(movie.GenreFilter("", true)))
	})

	t.Run("genre equality", func(t *testing.T) {
		assert.Equal(t, bson.D{{Key: "genre", Value: "Drama"}}, filterDocument(movie.GenreFilter("Drama", true)))
	})

	t.Run("director equality", func(t *testing.T) {
		assert.Equal(t, bson.D{{Key: "director", Value: "Michael Mann"}}, filterDocument(movie.DirectorFilter("Michael Mann")))
	})

	t.Run("minimum rating", func(t *testing.T) {
		f, err := movie.RatingFilter("7")
		require.NoError(t, err)

		want := bson.D{{Key: "rating", Value: bson.D{{Key: "$gte", Value: 7.0}}}}
		assert.Equal(t, want, filterDocument(f))
	})
}

func TestSetDocument(t *testing.T) {
	p, err := movie.ValidatePartial(movie.Input{"rating": 9.5, "title": "Heat"})
	require.NoError(t, err)

	want := bson.D{
		{Key: "title", Value: "Heat"},
		{Key: "rating", Value: 9.5},
	}
	assert.Equal(t, want, setDocument(p))
}

func TestNewClient_RequiresURI(t *testing.T) {
	_, err := NewClient(context.Background(), Options{URI: "  "})

	assert.EqualError(t, err, "mongodb: uri is required")
}

func TestConnector_CloseWithoutConnect(t *testing.T) {
	c := NewConnector(Options{URI: "mongodb://localhost:27017"})

	assert.NoError(t, c.Close(context.Background()))
}
