//go:build e2e

package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/babylonlabs-io/staking-queue-client/client"
	queueConfig "github.com/babylonlabs-io/staking-queue-client/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/staking-ledger/e2etest/container"
	"github.com/babylonlabs-io/staking-ledger/internal/api"
	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/queue"
	"github.com/babylonlabs-io/staking-ledger/internal/services"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

var (
	eventuallyWaitTimeOut = 40 * time.Second
	eventuallyPollTime    = 1 * time.Second

	ledgerOwner = pkg.MustParseAddress("0x00000000000000000000000000000000000000aa")
)

type TestManager struct {
	Config  *config.Config
	DbStore db.DbInterface
	Service *services.Service
	Server  *httptest.Server

	manager      *container.Manager
	queueManager *queue.QueueManager
	eventQueue   client.QueueClient
	events       <-chan client.QueueMessage
	cancel       context.CancelFunc
}

// StartManager starts mongo and rabbitmq containers and runs the full ledger
// service against them.
func StartManager(t *testing.T) *TestManager {
	manager, err := container.NewManager(t)
	require.NoError(t, err)

	mongo, err := manager.RunMongoResource(t)
	require.NoError(t, err)
	rabbit, err := manager.RunRabbitMQResource(t)
	require.NoError(t, err)

	cfg := DefaultLedgerConfig(mongo.GetPort("27017/tcp"), rabbit.GetPort("5672/tcp"))
	require.NoError(t, cfg.Validate())

	tm := &TestManager{
		Config:  cfg,
		manager: manager,
	}

	// both containers need a while before accepting connections
	require.NoError(t, manager.Pool().Retry(func() error {
		tm.DbStore, err = db.Open(context.Background(), cfg.Db)
		return err
	}))
	require.NoError(t, manager.Pool().Retry(func() error {
		tm.queueManager, err = queue.NewQueueManager(cfg.Queue, zap.NewNop())
		return err
	}))

	tm.consumeEvents(t)
	tm.startService(t)

	t.Cleanup(func() {
		tm.Stop()
	})
	return tm
}

func (tm *TestManager) startService(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tm.cancel = cancel

	tm.Service = services.NewService(tm.Config, tm.DbStore, tm.queueManager)
	require.NoError(t, tm.Service.Bootstrap(ctx))
	tm.Service.StartLedgerServices(ctx)

	tm.Server = httptest.NewServer(api.NewRouter(api.NewHandlers(tm.Service, api.HeaderCallerResolver{})))
}

// RestartService drops the in-memory ledger and bootstraps a new service
// from the stored snapshot and event log.
func (tm *TestManager) RestartService(t *testing.T) {
	tm.Server.Close()
	tm.cancel()
	tm.startService(t)
}

func (tm *TestManager) consumeEvents(t *testing.T) {
	eventQueue, err := client.NewQueueClient(tm.Config.Queue, queue.LedgerEventsQueueName)
	require.NoError(t, err)
	tm.eventQueue = eventQueue

	events, err := eventQueue.ReceiveMessages()
	require.NoError(t, err)
	tm.events = events
}

func (tm *TestManager) Stop() {
	if tm.Server != nil {
		tm.Server.Close()
	}
	if tm.cancel != nil {
		tm.cancel()
	}
	if tm.eventQueue != nil {
		_ = tm.eventQueue.Stop()
	}
	if tm.queueManager != nil {
		tm.queueManager.Shutdown()
	}
	if tm.DbStore != nil {
		_ = tm.DbStore.Close(context.Background())
	}
}

func DefaultLedgerConfig(mongoPort, rabbitPort string) *config.Config {
	return &config.Config{
		Db: config.DbConfig{
			Driver:   config.DbDriverMongo,
			Username: container.MongoUsername,
			Password: container.MongoPassword,
			DbName:   "staking-ledger-e2e",
			Address:  fmt.Sprintf("mongodb://localhost:%s/", mongoPort),
		},
		Ledger: config.LedgerConfig{
			Owner:                 ledgerOwner.String(),
			InitialSupply:         "1000000000000000000000000",
			RewardRateNumerator:   1,
			RewardRateDenominator: 100,
		},
		Poller: config.PollerConfig{
			SnapshotInterval:       time.Second,
			InvariantCheckInterval: time.Second,
		},
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Metrics: config.MetricsConfig{
			Host: "0.0.0.0",
			Port: 2112,
		},
		Queue: &queueConfig.QueueConfig{
			QueueUser:              container.RabbitMQUsername,
			QueuePassword:          container.RabbitMQPassword,
			Url:                    fmt.Sprintf("localhost:%s", rabbitPort),
			QueueProcessingTimeout: 5 * time.Second,
			MsgMaxRetryAttempts:    10,
			ReQueueDelayTime:       300 * time.Second,
			QueueType:              "quorum",
		},
	}
}

// Post sends a ledger operation as caller and decodes the committed event.
func (tm *TestManager) Post(t *testing.T, path string, caller pkg.Address, body any) *types.LedgerEvent {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(http.MethodPost, tm.Server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set(api.CallerHeader, caller.String())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ev types.LedgerEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ev))
	return &ev
}

func (tm *TestManager) GetAccount(t *testing.T, addr pkg.Address) api.AccountResponse {
	t.Helper()

	resp, err := http.Get(tm.Server.URL + "/v1/accounts/" + addr.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var account api.AccountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&account))
	return account
}

// CheckNextLedgerEvent reads the next message from the ledger events queue
// and compares it with the event returned by the API.
func (tm *TestManager) CheckNextLedgerEvent(t *testing.T, expected *types.LedgerEvent) {
	t.Helper()

	select {
	case msg := <-tm.events:
		var ev types.LedgerEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Body), &ev))
		require.NoError(t, tm.eventQueue.DeleteMessage(msg.Receipt))
		require.Equal(t, expected.ID, ev.ID)
		require.Equal(t, expected.Sequence, ev.Sequence)
		require.Equal(t, expected.Type, ev.Type)
		require.True(t, expected.Amount.Equal(ev.Amount))
	case <-time.After(eventuallyWaitTimeOut):
		t.Fatalf("ledger event %d was not published", expected.Sequence)
	}
}
