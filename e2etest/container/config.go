package container

import "github.com/babylonlabs-io/staking-ledger/pkg"

// ImageConfig contains all images and their respective tags
// needed for running e2e tests.
type ImageConfig struct {
	MongoRepository    string
	MongoVersion       string
	RabbitMQRepository string
	RabbitMQVersion    string
}

//nolint:deadcode
const (
	dockerMongoRepository    = "mongo"
	dockerMongoVersionTag    = "7.0.5"
	dockerRabbitMQRepository = "rabbitmq"
	dockerRabbitMQVersionTag = "3.13-management"
)

// NewImageConfig returns ImageConfig needed for running e2e test. Tags can
// be overridden from the environment to test against other server versions.
func NewImageConfig() ImageConfig {
	return ImageConfig{
		MongoRepository:    dockerMongoRepository,
		MongoVersion:       pkg.Getenv("E2E_MONGO_VERSION", dockerMongoVersionTag),
		RabbitMQRepository: dockerRabbitMQRepository,
		RabbitMQVersion:    pkg.Getenv("E2E_RABBITMQ_VERSION", dockerRabbitMQVersionTag),
	}
}
