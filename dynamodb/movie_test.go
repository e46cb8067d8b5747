package dynamodb

import (
	"context"
	"testing"

	"movieapi/movie"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterCondition(t *testing.T) {
	t.Run("no constraint for an empty filter", func(t *testing.T) {
		_, ok := filterCondition(movie.GenreFilter("", true))

		assert.False(t, ok)
	})

	t.Run("genre equality", func(t *testing.T) {
		cond, ok := filterCondition(movie.GenreFilter("Drama", true))
		require.True(t, ok)

		expr, err := expression.NewBuilder().WithFilter(cond).Build()

		require.NoError(t, err)
		assert.Equal(t, "#0 = :0", *expr.Filter())
		assert.Equal(t, "genre", expr.Names()["#0"])
		assert.Equal(t, &types.AttributeValueMemberS{Value: "Drama"}, expr.Values()[":0"])
	})

	t.Run("minimum rating", func(t *testing.T) {
		f, err := movie.RatingFilter("7.5")
		require.NoError(t, err)
		cond, ok := filterCondition(f)
		require.True(t, ok)

		expr, err := expression.NewBuilder().WithFilter(cond).Build()

		require.NoError(t, err)
		assert.Equal(t, "#0 >= :0", *expr.Filter())
		assert.Equal(t, "rating", expr.Names()["#0"])
		assert.Equal(t, &types.AttributeValueMemberN{Value: "7.5"}, expr.Values()[":0"])
	})

	t.Run("combined constraints", func(t *testing.T) {
		rating := 8.0
		genre, director := "Crime", "Michael Mann"
		cond, ok := filterCondition(movie.Filter{Genre: &genre, Director: &director, MinRating: &rating})
		require.True(t, ok)

		expr, err := expression.NewBuilder().WithFilter(cond).Build()

		require.NoError(t, err)
		assert.Len(t, expr.Names(), 3)
		assert.Len(t, expr.Values(), 3)
	})
}

func TestUpdateExpression(t *testing.T) {
	p, err := movie.ValidatePartial(movie.Input{"rating": 9.5})
	require.NoError(t, err)

	expr, err := expression.NewBuilder().WithUpdate(updateExpression(p)).Build()

	require.NoError(t, err)
	assert.Contains(t, *expr.Update(), "SET #0 = :0")
	assert.Equal(t, "rating", expr.Names()["#0"])
}

func TestMovieItem(t *testing.T) {
	m := movie.Movie{
		ID:       primitive.NewObjectID(),
		Title:    "Heat",
		Genre:    "Crime",
		Director: "Michael Mann",
		Year:     1995,
		Rating:   8.3,
		Duration: 170,
	}

	got, err := newMovieItem(m).toMovie()

	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = movieItem{ID: "broken"}.toMovie()
	assert.Error(t, err)
}

func TestNewConnector_RequiresTable(t *testing.T) {
	_, err := NewConnector(context.Background(), Options{Region: "us-east-1"})

	assert.EqualError(t, err, "dynamodb: table name is required")
}

func TestNewClient_RequiresRegion(t *testing.T) {
	_, err := NewClient(context.Background(), Options{Table: "movies"})

	assert.EqualError(t, err, "dynamodb: region is required")
}
