package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tdex-network/tdex-escrow/internal/core/application"
	"github.com/thanhpk/randstr"
)

const (
	// OwnerIdKey is the principal allowed to administer the solvers registry
	// and to report failed orders.
	OwnerIdKey = "OWNER_ID"
	// SolversKey is the comma separated list of solvers the registry is seeded
	// with at startup.
	SolversKey = "SOLVERS"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// GRPCListeningPortKey is the port where the gRPC interface will listen on
	GRPCListeningPortKey = "GRPC_LISTENING_PORT"
	// HTTPListeningPortKey is the port where the REST interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// CORSAllowedOriginsKey is the comma separated list of origins allowed to
	// call the REST interface and to open the events websocket.
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// AuthSecretKey is the HMAC secret used to sign and verify bearer tokens.
	// If not set, a random one is generated and persisted in the datadir.
	AuthSecretKey = "AUTH_SECRET"
	// TransferSinkKey selects where transfer requests are delivered to:
	// log, webhook or kafka.
	TransferSinkKey = "TRANSFER_SINK"
	// TransferWebhookURLKey is the endpoint transfer requests are POSTed to
	// when using the webhook sink.
	TransferWebhookURLKey = "TRANSFER_WEBHOOK_URL"
	// TransferWebhookSecretKey is the optional secret used to sign webhook
	// requests.
	TransferWebhookSecretKey = "TRANSFER_WEBHOOK_SECRET"
	// KafkaBrokersKey is the comma separated list of kafka brokers for the
	// kafka sink.
	KafkaBrokersKey = "KAFKA_BROKERS"
	// KafkaTopicKey is the topic transfer requests are written to.
	KafkaTopicKey = "KAFKA_TOPIC"
	// RelayIntervalKey is the interval in seconds between two retries of
	// undelivered transfers.
	RelayIntervalKey = "RELAY_INTERVAL"
	// RelayRateLimitKey is the max number of transfers delivered per second.
	RelayRateLimitKey = "RELAY_RATE_LIMIT"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic ledger statistics
	StatsIntervalKey = "STATS_INTERVAL"

	SinkLog     = "log"
	SinkWebhook = "webhook"
	SinkKafka   = "kafka"

	DbLocation       = "db"
	ProfilerLocation = "stats"
	AuthSecretFile   = "auth.secret"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("escrowd", false)

	supportedSinks = map[string]struct{}{
		SinkLog:     {},
		SinkWebhook: {},
		SinkKafka:   {},
	}
)

func InitConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error while loading .env file: %s", err)
	}

	vip = viper.New()
	vip.SetEnvPrefix("ESCROW")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(GRPCListeningPortKey, 9945)
	vip.SetDefault(HTTPListeningPortKey, 9000)
	vip.SetDefault(TransferSinkKey, SinkLog)
	vip.SetDefault(RelayIntervalKey, 10)
	vip.SetDefault(RelayRateLimitKey, 10)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	if err := initAuthSecret(); err != nil {
		return fmt.Errorf("error while initializing auth secret: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetStringSlice returns the comma separated values of the given key.
// Viper splits env values on white spaces, not commas.
func GetStringSlice(key string) []string {
	list := make([]string, 0)
	for _, v := range strings.Split(vip.GetString(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}

// GetDuration returns the value of the given key as a number of seconds.
func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetAuthSecret() []byte {
	return []byte(GetString(AuthSecretKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if GetString(OwnerIdKey) == "" {
		return fmt.Errorf("missing owner id")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	sink := GetString(TransferSinkKey)
	if _, ok := supportedSinks[sink]; !ok {
		return fmt.Errorf("unsupported transfer sink %s", sink)
	}
	if sink == SinkWebhook && GetString(TransferWebhookURLKey) == "" {
		return fmt.Errorf("webhook sink requires %s", TransferWebhookURLKey)
	}
	if sink == SinkKafka && len(GetStringSlice(KafkaBrokersKey)) <= 0 {
		return fmt.Errorf("kafka sink requires %s", KafkaBrokersKey)
	}

	if GetInt(RelayIntervalKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", RelayIntervalKey)
	}
	if GetInt(RelayRateLimitKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", RelayRateLimitKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}

	if GetString(DBTypeKey) != application.DBInmemory {
		if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

// initAuthSecret makes sure an auth secret is always available. If not
// provided via env, the one stored in the datadir is used, or a new one is
// generated and stored there otherwise.
func initAuthSecret() error {
	if GetString(AuthSecretKey) != "" {
		return nil
	}

	path := filepath.Join(GetDatadir(), AuthSecretFile)
	secret, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		secret = []byte(randstr.Hex(32))
		if err := os.WriteFile(path, secret, 0600); err != nil {
			return err
		}
	}

	vip.Set(AuthSecretKey, strings.TrimSpace(string(secret)))
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
