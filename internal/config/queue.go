package config

import (
	"errors"
	"strings"

	queue "github.com/babylonlabs-io/staking-queue-client/config"

	"github.com/babylonlabs-io/staking-ledger/internal/utils"
)

var supportedQueueTypes = []string{"classic", "quorum"}

func validateQueue(cfg *queue.QueueConfig) error {
	if cfg.QueueUser == "" {
		return errors.New("queue user is required")
	}

	if cfg.QueuePassword == "" {
		return errors.New("queue password is required")
	}

	if cfg.Url == "" {
		return errors.New("queue url is required")
	}

	if cfg.QueueProcessingTimeout <= 0 {
		return errors.New("queue processing timeout must be positive")
	}

	// the client prepends amqp:// and the credentials itself
	if strings.Contains(cfg.Url, "://") {
		return errors.New("queue url must be host:port without a scheme")
	}

	if !utils.Contains(supportedQueueTypes, cfg.QueueType) {
		return errors.New("queue type must be classic or quorum")
	}

	return nil
}
