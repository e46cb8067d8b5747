package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movieapi/httpserver"
	"movieapi/movie"
	"movieapi/pkg/config"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.AllowOrigins = "*"
	cfg.Store.Driver = config.DriverMongoDB
	return cfg
}

type recordingTransport struct {
	events []*sentrygo.Event
}

func (t *recordingTransport) Configure(sentrygo.ClientOptions) {}

func (t *recordingTransport) SendEvent(event *sentrygo.Event) {
	t.events = append(t.events, event)
}

func (t *recordingTransport) Flush(time.Duration) bool {
	return true
}

// recordSentryEvents enables reporting and captures the events sent through
// the current hub for the rest of the test.
func recordSentryEvents(t *testing.T) *recordingTransport {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")

	transport := new(recordingTransport)
	client, err := sentrygo.NewClient(sentrygo.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	require.NoError(t, err)

	hub := sentrygo.CurrentHub()
	previous := hub.Client()
	hub.BindClient(client)
	t.Cleanup(func() { hub.BindClient(previous) })
	return transport
}

type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Acquire(ctx context.Context) (movie.Handle, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).(movie.Handle)
	return h, args.Error(1)
}

type MockHandle struct {
	mock.Mock
}

func (m *MockHandle) Find(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockHandle) FindByID(ctx context.Context, id primitive.ObjectID) (movie.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockHandle) Insert(ctx context.Context, mv movie.Movie) (movie.Movie, error) {
	args := m.Called(ctx, mv)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockHandle) Update(ctx context.Context, id primitive.ObjectID, p movie.Patch) (movie.Movie, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockHandle) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHandle) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// newMockedServer wires a server to a connector that hands out h and expects
// exactly one acquire and one release.
func newMockedServer(t *testing.T, h *MockHandle) *httpserver.Server {
	t.Helper()
	connector := new(MockConnector)
	connector.On("Acquire", mock.Anything).Return(h, nil).Once()
	h.On("Release", mock.Anything).Return(nil).Once()
	t.Cleanup(func() {
		connector.AssertExpectations(t)
		h.AssertExpectations(t)
	})

	server := httpserver.Default(testConfig())
	server.Connector = connector
	return server
}

func serve(server *httpserver.Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp.Error
}

func decodeMovies(t *testing.T, rec *httptest.ResponseRecorder) []movie.Movie {
	t.Helper()
	var movies []movie.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies), "body: %s", rec.Body.String())
	return movies
}

func decodeMovie(t *testing.T, rec *httptest.ResponseRecorder) movie.Movie {
	t.Helper()
	var m movie.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), "body: %s", rec.Body.String())
	return m
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
}
