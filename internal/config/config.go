package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zildex/zilliqa-nft-marketplace/internal/log"
	"go.uber.org/zap"
)

type Config struct {
	Env       string
	Network   string
	Index     string
	Debug     bool
	Reindex   bool
	LogPath   string
	SentryDsn string
	ApiPort   string

	Market        MarketConfig
	Custody       CustodyConfig
	Payments      PaymentsConfig
	ElasticSearch ElasticSearchConfig
	Aws           AwsConfig
}

type MarketConfig struct {
	// AdminAddress is the only identity permitted to call admin operations.
	AdminAddress string
	// OperatorAddress is the marketplace identity the custody authority must
	// have been approved for before an item can be listed or sold.
	OperatorAddress string
	// Account holding collected fees at the payment gateway.
	FeeAccount string
	// Initial fee rate in tenths of a percent, used when no persisted
	// market state exists yet.
	DefaultFeeBps uint
}

type CustodyConfig struct {
	Url     string
	Timeout int
	Debug   bool
}

type PaymentsConfig struct {
	Url     string
	Timeout int
	Debug   bool
}

type AwsConfig struct {
	AccessKey   string
	SecretKey   string
	Token       string
	Region      string
	QueuePrefix string
}

type ElasticSearchConfig struct {
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Aws              bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
}

func Init(service string) {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env")
	}

	viper.AutomaticEnv()
	setDefaults()

	initLogger(service)
}

func initLogger(service string) {
	log.NewLogger(viper.GetString("LOG_PATH")+"/"+service+".log", viper.GetBool("DEBUG"), viper.GetString("SENTRY_DSN"))
}

func setDefaults() {
	viper.SetDefault("ENV", "dev")
	viper.SetDefault("NETWORK", "zilliqa")
	viper.SetDefault("INDEX_NAME", "marketplace")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("REINDEX", false)
	viper.SetDefault("LOG_PATH", "./var/log")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("API_PORT", "8080")

	viper.SetDefault("MARKET_ADMIN_ADDRESS", "")
	viper.SetDefault("MARKET_OPERATOR_ADDRESS", "")
	viper.SetDefault("MARKET_FEE_ACCOUNT", "")
	viper.SetDefault("MARKET_DEFAULT_FEE_BPS", 250)

	viper.SetDefault("CUSTODY_URL", "")
	viper.SetDefault("CUSTODY_TIMEOUT", 30)
	viper.SetDefault("CUSTODY_DEBUG", false)

	viper.SetDefault("PAYMENTS_URL", "")
	viper.SetDefault("PAYMENTS_TIMEOUT", 30)
	viper.SetDefault("PAYMENTS_DEBUG", false)

	viper.SetDefault("AWS_ACCESS_KEY_ID", "")
	viper.SetDefault("AWS_SECRET_KEY_ID", "")
	viper.SetDefault("AWS_TOKEN", "")
	viper.SetDefault("AWS_REGION", "")
	viper.SetDefault("AWS_QUEUE_PREFIX", "marketplace")

	viper.SetDefault("ELASTIC_SEARCH_HOSTS", "")
	viper.SetDefault("ELASTIC_SEARCH_SNIFF", true)
	viper.SetDefault("ELASTIC_SEARCH_HEALTH_CHECK", true)
	viper.SetDefault("ELASTIC_SEARCH_DEBUG", false)
	viper.SetDefault("ELASTIC_SEARCH_AWS", false)
	viper.SetDefault("ELASTIC_SEARCH_USERNAME", "")
	viper.SetDefault("ELASTIC_SEARCH_PASSWORD", "")
	viper.SetDefault("ELASTIC_SEARCH_MAPPING_DIR", "./data/mappings")
	viper.SetDefault("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300)
	viper.SetDefault("ELASTIC_SEARCH_REFRESH", "wait_for")
}

func Get() *Config {
	return &Config{
		Env:       viper.GetString("ENV"),
		Network:   viper.GetString("NETWORK"),
		Index:     viper.GetString("INDEX_NAME"),
		Debug:     viper.GetBool("DEBUG"),
		Reindex:   viper.GetBool("REINDEX"),
		LogPath:   viper.GetString("LOG_PATH"),
		SentryDsn: viper.GetString("SENTRY_DSN"),
		ApiPort:   viper.GetString("API_PORT"),
		Market: MarketConfig{
			AdminAddress:    viper.GetString("MARKET_ADMIN_ADDRESS"),
			OperatorAddress: viper.GetString("MARKET_OPERATOR_ADDRESS"),
			FeeAccount:      viper.GetString("MARKET_FEE_ACCOUNT"),
			DefaultFeeBps:   viper.GetUint("MARKET_DEFAULT_FEE_BPS"),
		},
		Custody: CustodyConfig{
			Url:     viper.GetString("CUSTODY_URL"),
			Timeout: viper.GetInt("CUSTODY_TIMEOUT"),
			Debug:   viper.GetBool("CUSTODY_DEBUG"),
		},
		Payments: PaymentsConfig{
			Url:     viper.GetString("PAYMENTS_URL"),
			Timeout: viper.GetInt("PAYMENTS_TIMEOUT"),
			Debug:   viper.GetBool("PAYMENTS_DEBUG"),
		},
		Aws: AwsConfig{
			AccessKey:   viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:   viper.GetString("AWS_SECRET_KEY_ID"),
			Token:       viper.GetString("AWS_TOKEN"),
			Region:      viper.GetString("AWS_REGION"),
			QueuePrefix: viper.GetString("AWS_QUEUE_PREFIX"),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", ","),
			Sniff:            viper.GetBool("ELASTIC_SEARCH_SNIFF"),
			HealthCheck:      viper.GetBool("ELASTIC_SEARCH_HEALTH_CHECK"),
			Debug:            viper.GetBool("ELASTIC_SEARCH_DEBUG"),
			Aws:              viper.GetBool("ELASTIC_SEARCH_AWS"),
			Username:         viper.GetString("ELASTIC_SEARCH_USERNAME"),
			Password:         viper.GetString("ELASTIC_SEARCH_PASSWORD"),
			MappingDir:       viper.GetString("ELASTIC_SEARCH_MAPPING_DIR"),
			BulkPersistCount: viper.GetInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT"),
			Refresh:          viper.GetString("ELASTIC_SEARCH_REFRESH"),
		},
	}
}

func getSlice(key string, sep string) []string {
	valStr := viper.GetString(key)
	if valStr == "" {
		return make([]string, 0)
	}

	return strings.Split(valStr, sep)
}
