//go:build integration_test || all_tests

package internal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/2beens/exercisetracker/internal"
	"github.com/2beens/exercisetracker/internal/config"
	"github.com/2beens/exercisetracker/internal/tracker"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serverPort = 9000
	serverHost = "127.0.0.1"
	testDBName = "exercise_tracker"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type ServerIntegrationTestSuite struct {
	suite.Suite

	dockerPool *dockertest.Pool
	server     *internal.Server
	httpClient *http.Client
	teardown   []func()
}

func TestServerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ServerIntegrationTestSuite))
}

func (s *ServerIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	t := s.T()

	s.httpClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	require.NoError(t, err, "could not create new dockertest pool")
	require.NoError(t, s.dockerPool.Client.Ping(), "could not ping docker")

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		t.Fatalf("failed to setup redis: %s", err)
	}

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		t.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := &config.Config{
		Environment:            "development",
		Host:                   serverHost,
		Port:                   serverPort,
		Store:                  config.StorePostgres,
		PostgresHost:           "localhost",
		PostgresPort:           pgPort,
		PostgresDBName:         testDBName,
		RedisHost:              "localhost",
		RedisPort:              redisPort,
		RateLimitAllowedPerMin: 1000,
		CorsAllowedOrigins:     []string{"*"},
		PrometheusMetricsHost:  serverHost,
		PrometheusMetricsPort:  "9001",
	}

	// postgres may still be starting up, the server creates the schema on start
	err = s.dockerPool.Retry(func() error {
		var srvErr error
		s.server, srvErr = internal.NewServer(ctx, internal.NewServerParams{
			Config:      cfg,
			VersionInfo: "test-version-info",
		})
		return srvErr
	})
	if err != nil {
		s.cleanup()
		t.Fatalf("new server: %s", err)
	}

	s.server.Serve(cfg.Host, cfg.Port)

	err = s.dockerPool.Retry(func() error {
		resp, err := s.httpClient.Get(serverEndpoint + "/health")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health status: %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		s.cleanup()
		t.Fatalf("server not healthy: %s", err)
	}
}

func (s *ServerIntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *ServerIntegrationTestSuite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *ServerIntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *ServerIntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + testDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %w", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	return pgResource.GetPort("5432/tcp"), nil
}

func (s *ServerIntegrationTestSuite) postForm(path string, form url.Values) (int, []byte) {
	t := s.T()
	req, err := http.NewRequest(http.MethodPost, serverEndpoint+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (s *ServerIntegrationTestSuite) get(path string) (int, []byte) {
	t := s.T()
	resp, err := s.httpClient.Get(serverEndpoint + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (s *ServerIntegrationTestSuite) TestExerciseTracking() {
	t := s.T()

	status, body := s.postForm("/api/exercise/new-user", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, status)
	var newUserResp tracker.NewUserResponse
	require.NoError(t, json.Unmarshal(body, &newUserResp))
	userID := newUserResp.NewUser.ID
	require.NotEmpty(t, userID)

	status, body = s.postForm("/api/exercise/new-user", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, status)
	s.JSONEq(`{"error":"Username already exists"}`, string(body))

	for _, form := range []url.Values{
		{"userId": {userID}, "description": {"running"}, "duration": {"30"}, "date": {"2024-01-01"}},
		{"userId": {userID}, "description": {"cycling"}, "duration": {"45"}, "date": {"2024-01-05"}},
	} {
		status, body = s.postForm("/api/exercise/add", form)
		require.Equal(t, http.StatusOK, status)
		s.JSONEq(`{"message":"Exercise successfully added","updatedUser":"alice"}`, string(body))
	}

	status, body = s.get("/api/exercise/log?userId=" + userID)
	require.Equal(t, http.StatusOK, status)
	s.JSONEq(`[
		{"description":"running","duration":30,"date":"2024-01-01"},
		{"description":"cycling","duration":45,"date":"2024-01-05"}
	]`, string(body))

	status, body = s.get("/api/exercise/log?userId=" + userID + "&from=2024-01-02")
	require.Equal(t, http.StatusOK, status)
	s.JSONEq(`[{"description":"cycling","duration":45,"date":"2024-01-05"}]`, string(body))

	status, body = s.get("/api/exercise/log?userId=" + userID + "&limit=1")
	require.Equal(t, http.StatusOK, status)
	s.JSONEq(`[{"description":"running","duration":30,"date":"2024-01-01"}]`, string(body))
}

func (s *ServerIntegrationTestSuite) TestUnknownUser() {
	status, body := s.postForm("/api/exercise/add", url.Values{
		"userId":      {"5b3c9e0e-0000-4000-8000-000000000000"},
		"description": {"running"},
		"duration":    {"30"},
	})
	s.Equal(http.StatusInternalServerError, status)
	s.Equal("User does not exist", string(body))

	status, body = s.get("/api/exercise/log?userId=not-a-uuid")
	s.Equal(http.StatusInternalServerError, status)
	s.Equal("User does not exist", string(body))
}

func (s *ServerIntegrationTestSuite) TestNotFound() {
	status, body := s.get("/api/unknown")
	s.Equal(http.StatusNotFound, status)
	s.Equal("not found", string(body))
}
