package config

import (
	"errors"
	"time"
)

const defaultPublishTimeout = 5 * time.Second

type QueueConfig struct {
	QueueUser      string        `mapstructure:"queue_user"`
	QueuePassword  string        `mapstructure:"queue_password"`
	Url            string        `mapstructure:"url"`
	Exchange       string        `mapstructure:"exchange"`
	QueueName      string        `mapstructure:"queue_name"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.QueueUser == "" {
		return errors.New("missing queue user")
	}
	if cfg.QueuePassword == "" {
		return errors.New("missing queue password")
	}
	if cfg.Url == "" {
		return errors.New("missing queue url")
	}
	if cfg.QueueName == "" {
		return errors.New("missing queue name")
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	return nil
}
