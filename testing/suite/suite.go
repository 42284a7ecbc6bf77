package suite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// DockerRedisEnv switches the suite from an in-process miniredis to a real
// redis container started with dockertest.
const DockerRedisEnv = "TEST_DOCKER_REDIS"

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client

	// Mini is set only when the suite runs on miniredis.
	Mini *miniredis.Miniredis
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	st := &Suite{
		T:      t,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}

	if os.Getenv(DockerRedisEnv) == "1" {
		st.Storage = startDockerRedis(ctx, t)
	} else {
		st.Mini = miniredis.RunT(t)
		st.Storage = redis.NewClient(&redis.Options{
			Addr: st.Mini.Addr(),
		})
	}

	t.Cleanup(func() {
		_ = st.Storage.Close()
	})

	if err := st.Storage.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return ctx, st
}

// FastForward moves redis time forward so keys with a TTL expire.
// Real containers cannot be fast forwarded, so the test is skipped there.
func (that *Suite) FastForward(d time.Duration) {
	that.Helper()

	if that.Mini == nil {
		that.Skip("fast forward is only supported on miniredis")
	}

	that.Mini.FastForward(d)
}

func startDockerRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
		Env:        []string{},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start resource: %v", err)
	}

	// never returns error
	_ = resource.Expire(expireDuration) // Tell docker to hard kill the container in 120 seconds

	redisHost := resource.GetHostPort(redisPort)

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	pool.MaxWait = maxWaitDuration

	var redisClient *redis.Client
	if err = pool.Retry(func() error {
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisHost,
		})
		return redisClient.Ping(ctx).Err()
	}); err != nil {
		if err = pool.Purge(resource); err != nil {
			t.Fatalf("could not purge resource: %v", err)
		}

		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		if err = pool.Purge(resource); err != nil {
			t.Errorf("could not purge resource: %v", err)
		}
	})

	return redisClient
}
