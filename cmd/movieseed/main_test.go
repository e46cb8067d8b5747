package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"movieapi/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Find(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id primitive.ObjectID) (movie.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *mockRepository) Insert(ctx context.Context, mv movie.Movie) (movie.Movie, error) {
	args := m.Called(ctx, mv)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id primitive.ObjectID, p movie.Patch) (movie.Movie, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockHandle struct {
	mockRepository
}

func (m *mockHandle) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockConnector struct {
	mock.Mock
}

func (m *mockConnector) Acquire(ctx context.Context) (movie.Handle, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).(movie.Handle)
	return h, args.Error(1)
}

func (m *mockConnector) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func inserted(title string) any {
	return mock.MatchedBy(func(m movie.Movie) bool { return m.Title == title })
}

func TestLoadMovies(t *testing.T) {
	const data = `Title,Genre,Director,Year,Rating,Plot
Heat,Crime,Michael Mann,1995,8.3,A heist crew and a detective
Collateral,Crime,Michael Mann,two thousand four,7.5,
Alien,Horror,Ridley Scott,1979,8.5,
,Drama,Nobody,2000,5,
`

	t.Run("inserts valid rows and skips invalid ones", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Insert", mock.Anything, inserted("Heat")).Return(movie.Movie{ID: primitive.NewObjectID(), Title: "Heat"}, nil).Once()
		repo.On("Insert", mock.Anything, inserted("Alien")).Return(movie.Movie{ID: primitive.NewObjectID(), Title: "Alien"}, nil).Once()

		count, err := loadMovies(context.Background(), movie.NewUsecase(repo), strings.NewReader(data), 0)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		repo.AssertExpectations(t)
	})

	t.Run("stops at the limit", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Insert", mock.Anything, inserted("Heat")).Return(movie.Movie{ID: primitive.NewObjectID(), Title: "Heat"}, nil).Once()

		count, err := loadMovies(context.Background(), movie.NewUsecase(repo), strings.NewReader(data), 1)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("store error stops the import", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Insert", mock.Anything, mock.Anything).Return(movie.Movie{}, errors.New("connection reset")).Once()

		count, err := loadMovies(context.Background(), movie.NewUsecase(repo), strings.NewReader(data), 0)

		assert.EqualError(t, err, "connection reset")
		assert.Zero(t, count)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := loadMovies(context.Background(), movie.NewUsecase(new(mockRepository)), strings.NewReader("title,genre\nHeat,Crime\n"), 0)

		assert.EqualError(t, err, `missing column "director" in csv header`)
	})
}

func TestParseRecord(t *testing.T) {
	index := map[string]int{"title": 0, "year": 1, "rating": 2, "poster": 3}

	in := parseRecord([]string{" Heat ", "1995", "8.3", ""}, index)

	assert.Equal(t, movie.Input{
		"title":  "Heat",
		"year":   json.Number("1995"),
		"rating": json.Number("8.3"),
	}, in)
}

func TestSeed(t *testing.T) {
	t.Run("closes the store when the file is missing", func(t *testing.T) {
		connector := new(mockConnector)
		connector.On("Close", mock.Anything).Return(nil).Once()

		_, err := seed(context.Background(), connector, filepath.Join(t.TempDir(), "missing.csv"), 0)

		assert.ErrorIs(t, err, os.ErrNotExist)
		connector.AssertExpectations(t)
		connector.AssertNotCalled(t, "Acquire", mock.Anything)
	})

	t.Run("releases the handle and closes the store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.csv")
		require.NoError(t, os.WriteFile(path, []byte("title,genre,director,year,rating\nHeat,Crime,Michael Mann,1995,8.3\n"), 0o600))

		h := new(mockHandle)
		h.On("Insert", mock.Anything, inserted("Heat")).Return(movie.Movie{ID: primitive.NewObjectID(), Title: "Heat"}, nil).Once()
		h.On("Release", mock.Anything).Return(nil).Once()
		connector := new(mockConnector)
		connector.On("Acquire", mock.Anything).Return(h, nil).Once()
		connector.On("Close", mock.Anything).Return(nil).Once()

		count, err := seed(context.Background(), connector, path, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		h.AssertExpectations(t)
		connector.AssertExpectations(t)
	})

	t.Run("reports a close error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.csv")
		require.NoError(t, os.WriteFile(path, []byte("title,genre,director,year,rating\n"), 0o600))

		h := new(mockHandle)
		h.On("Release", mock.Anything).Return(nil).Once()
		connector := new(mockConnector)
		connector.On("Acquire", mock.Anything).Return(h, nil).Once()
		connector.On("Close", mock.Anything).Return(errors.New("disconnect timeout")).Once()

		_, err := seed(context.Background(), connector, path, 0)

		assert.EqualError(t, err, "close movie store: disconnect timeout")
	})
}
