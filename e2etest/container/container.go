package container

import (
	"fmt"
	"testing"
	"time"

	"github.com/babylonlabs-io/staking-ledger/testutil"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	MongoUsername    = "user"
	MongoPassword    = "password"
	RabbitMQUsername = "user"
	RabbitMQPassword = "password"
)

// Manager is a wrapper around all Docker instances, and the Docker API.
// It provides utilities to run and interact with all Docker containers used within e2e testing.
type Manager struct {
	cfg       ImageConfig
	pool      *dockertest.Pool
	resources map[string]*dockertest.Resource
}

// NewManager creates a new Manager instance and initializes
// all Docker specific utilities. Returns an error if initialization fails.
func NewManager(t *testing.T) (*Manager, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}
	pool.MaxWait = 2 * time.Minute

	m := &Manager{
		cfg:       NewImageConfig(),
		pool:      pool,
		resources: make(map[string]*dockertest.Resource),
	}
	t.Cleanup(func() {
		require.NoError(t, m.ClearResources())
	})
	return m, nil
}

func (m *Manager) run(t *testing.T, name string, opts *dockertest.RunOptions) *dockertest.Resource {
	suffix, err := testutil.RandomAlphaNum(4)
	require.NoError(t, err)

	opts.Name = fmt.Sprintf("%s-e2e-%s", name, suffix)
	resource, err := m.pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err)

	m.resources[name] = resource
	return resource
}

// RunMongo starts mongodb and returns the host address it listens on.
func (m *Manager) RunMongo(t *testing.T) string {
	resource := m.run(t, "mongo", &dockertest.RunOptions{
		Repository: m.cfg.MongoRepository,
		Tag:        m.cfg.MongoVersion,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + MongoUsername,
			"MONGO_INITDB_ROOT_PASSWORD=" + MongoPassword,
		},
	})
	return fmt.Sprintf("mongodb://localhost:%s/", resource.GetPort("27017/tcp"))
}

// RunRabbitMQ starts rabbitmq and returns the host:port of its amqp listener.
func (m *Manager) RunRabbitMQ(t *testing.T) string {
	resource := m.run(t, "rabbitmq", &dockertest.RunOptions{
		Repository: m.cfg.RabbitMQRepository,
		Tag:        m.cfg.RabbitMQVersion,
		Env: []string{
			"RABBITMQ_DEFAULT_USER=" + RabbitMQUsername,
			"RABBITMQ_DEFAULT_PASS=" + RabbitMQPassword,
		},
	})
	return fmt.Sprintf("localhost:%s", resource.GetPort("5672/tcp"))
}

// Retry calls op until it succeeds or the pool's max wait expires.
func (m *Manager) Retry(op func() error) error {
	return m.pool.Retry(op)
}

// ClearResources removes all outstanding Docker resources created by the Manager.
func (m *Manager) ClearResources() error {
	for name, resource := range m.resources {
		if err := m.pool.Purge(resource); err != nil {
			return fmt.Errorf("failed to purge %s: %w", name, err)
		}
	}
	return nil
}
