package application

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	dbpebble "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pebble"
)

const (
	DBInmemory = "inmemory"
	DBBadger   = "badger"
	DBPebble   = "pebble"
)

var (
	SupportedDBType = map[string]struct{}{
		DBInmemory: {},
		DBBadger:   {},
		DBPebble:   {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir of the db for badger and pebble.
	DBConfig interface{}

	OwnerId        string
	Solvers        []string
	TransferSink   ports.TransferSink
	Publisher      ports.Publisher
	RelayInterval  time.Duration
	RelayRateLimit int
	Clock          clock.Clock

	repo   ports.RepoManager
	relay  RelayService
	escrow EscrowService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.DBType != DBInmemory {
		if _, ok := c.DBConfig.(string); !ok {
			return fmt.Errorf("db config must be the path of the db datadir")
		}
	}
	if c.OwnerId == "" {
		return fmt.Errorf("missing owner id")
	}
	if c.TransferSink == nil {
		return fmt.Errorf("missing transfer sink")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.relayService(); err != nil {
		return err
	}
	if _, err := c.escrowService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) RelayService() RelayService {
	svc, _ := c.relayService()
	return svc
}

func (c *Config) EscrowService() EscrowService {
	svc, _ := c.escrowService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir := c.DBConfig.(string)
			logger := log.New()
			logger.SetLevel(log.WarnLevel)
			repoManager, err := dbbadger.NewRepoManager(datadir, logger)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBPebble:
			datadir := c.DBConfig.(string)
			repoManager, err := dbpebble.NewRepoManager(datadir)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		default:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}

func (c *Config) relayService() (RelayService, error) {
	if c.relay == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		relaySvc, err := NewRelayService(
			repo, c.TransferSink, c.Clock, c.RelayInterval, c.RelayRateLimit,
		)
		if err != nil {
			return nil, err
		}
		c.relay = relaySvc
	}
	return c.relay, nil
}

func (c *Config) escrowService() (EscrowService, error) {
	if c.escrow == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		relaySvc, err := c.relayService()
		if err != nil {
			return nil, err
		}
		escrowSvc, err := NewEscrowService(
			repo, c.Publisher, relaySvc, c.Clock, c.OwnerId, c.Solvers,
		)
		if err != nil {
			return nil, err
		}
		c.escrow = escrowSvc
	}
	return c.escrow, nil
}
