package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// PercentageFeeKey is the trading fee in basis point applied to every pool created by the daemon
	PercentageFeeKey = "PERCENTAGE_FEE"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// StatsIntervalKey defines interval for printing basic pool statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// CustodyAccountKey is the ledger account holding the reserves of all pools
	CustodyAccountKey = "CUSTODY_ACCOUNT"
	// WebhookEndpointKey is the URL to notify with a POST request for every pool event
	WebhookEndpointKey = "WEBHOOK_ENDPOINT"
	// WebhookSecretKey is the secret used to sign the JWT sent along with webhook notifications
	WebhookSecretKey = "WEBHOOK_SECRET"

	DBBadger   = "badger"
	DBInMemory = "inmemory"

	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("pooldex-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("POOLDEX")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(PercentageFeeKey, 30)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(CustodyAccountKey, "pooldex")

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	percentageFee := GetInt(PercentageFeeKey)
	if percentageFee < 0 || percentageFee > 10000 {
		return fmt.Errorf(
			"%s must be in range [0, 10000]", PercentageFeeKey,
		)
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"%s must be either %s or %s", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	if endpoint := GetString(WebhookEndpointKey); endpoint != "" {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("%s must be a valid URI", WebhookEndpointKey)
		}
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
