package shared

import (
	"encoding/json"
	"github.com/tailscale/hujson"
	"log"
	"os"
	"time"
)

const (
	configVarName  = "CONFIG"                   // If set, will load config.json from this path and not from devConfigPath
	secretsVarName = "SECRETS"                  // If set, will load secrets.json from this path and not from devSecretsPath
	devConfigPath  = "../dev/config.dev.jsonc"  // Path to config.json in development environment
	devSecretsPath = "../dev/secrets.dev.jsonc" // Path to secrets.json in development environment
)

const (
	defaultFetchTimeoutSec     = 10
	defaultMaxFetchBytes       = 2 * 1024 * 1024
	defaultMaxMediaBytes       = 8 * 1024 * 1024
	defaultMaxParallelUpserts  = 4
	defaultProfileRefreshHours = 24
	defaultBreakerMinRequests  = 5
	defaultBreakerFailureRatio = 0.6
	defaultBreakerOpenSec      = 60
	defaultDiagnosticsKeepDays = 3
)

type Config struct {
	Secrets             Secrets         `json:"-"`
	LogFile             string          `json:"log_file"`
	LogLevel            string          `json:"log_level"`
	ServicePort         uint            `json:"service_port"`
	Host                string          `json:"host"`
	DbFile              string          `json:"db_file"`
	FetchTimeoutSec     int             `json:"fetch_timeout_sec"`
	MaxFetchBytes       int64           `json:"max_fetch_bytes"`
	MaxMediaBytes       int64           `json:"max_media_bytes"`
	MaxParallelUpserts  int             `json:"max_parallel_upserts"`
	ProfileRefreshHours *int            `json:"profile_refresh_hours"`
	Breaker             BreakerConfig   `json:"breaker"`
	BlobStore           BlobStoreConfig `json:"blob_store"`
	Instance            *InstanceActor  `json:"instance"`
	DiagnosticsDir      string          `json:"diagnostics_dir"`
	DiagnosticsKeepDays int             `json:"diagnostics_keep_days"`
}

type BreakerConfig struct {
	MinRequests  uint32  `json:"min_requests"`
	FailureRatio float64 `json:"failure_ratio"`
	OpenSec      int     `json:"open_sec"`
}

type BlobStoreConfig struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	PublicUrl string `json:"public_url"`
}

// InstanceActor is the service's own ActivityPub identity, used to sign outbound fetches.
type InstanceActor struct {
	User      string    `json:"user"`
	Published time.Time `json:"published"`
	PubKey    string    `json:"pub_key"`
	PrivKey   string    `json:"priv_key"`
}

type Secrets struct {
	InstancePrivKeyPass string   `json:"instance_privkey_passphrase"`
	ApiKeys             []string `json:"api_keys"`
	MetricsAuth         string   `json:"metrics_auth"`
	S3KeyId             string   `json:"s3_key_id"`
	S3KeySecret         string   `json:"s3_key_secret"`
}

func LoadConfig() *Config {

	// Where are our config and secrets files?
	cfgPath := os.Getenv(configVarName)
	if len(cfgPath) == 0 {
		cfgPath = devConfigPath
	}
	secretsPath := os.Getenv(secretsVarName)
	if len(secretsPath) == 0 {
		secretsPath = devSecretsPath
	}

	// Read config file
	var config Config
	mustDeserializeFile(cfgPath, &config)
	// Read secrets member from secrets file
	mustDeserializeFile(secretsPath, &config.Secrets)
	config.ApplyDefaults()
	return &config
}

// ApplyDefaults fills in zero-valued settings.
func (cfg *Config) ApplyDefaults() {
	if cfg.FetchTimeoutSec <= 0 {
		cfg.FetchTimeoutSec = defaultFetchTimeoutSec
	}
	if cfg.MaxFetchBytes <= 0 {
		cfg.MaxFetchBytes = defaultMaxFetchBytes
	}
	if cfg.MaxMediaBytes <= 0 {
		cfg.MaxMediaBytes = defaultMaxMediaBytes
	}
	if cfg.MaxParallelUpserts <= 0 {
		cfg.MaxParallelUpserts = defaultMaxParallelUpserts
	}
	if cfg.ProfileRefreshHours == nil {
		hours := defaultProfileRefreshHours
		cfg.ProfileRefreshHours = &hours
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker.MinRequests = defaultBreakerMinRequests
	}
	if cfg.Breaker.FailureRatio <= 0 {
		cfg.Breaker.FailureRatio = defaultBreakerFailureRatio
	}
	if cfg.Breaker.OpenSec <= 0 {
		cfg.Breaker.OpenSec = defaultBreakerOpenSec
	}
	if cfg.DiagnosticsKeepDays <= 0 {
		cfg.DiagnosticsKeepDays = defaultDiagnosticsKeepDays
	}
}

// ProfileTTL returns how long a stored remote profile is served without re-fetching.
// Zero means stored profiles are never refreshed.
func (cfg *Config) ProfileTTL() time.Duration {
	if cfg.ProfileRefreshHours == nil {
		return 0
	}
	return time.Duration(*cfg.ProfileRefreshHours) * time.Hour
}

func mustDeserializeFile[T any](fileName string, obj *T) {
	var err error
	var cfgJson []byte
	cfgJson, err = os.ReadFile(fileName)
	if err != nil {
		log.Fatal(err)
	}
	// JSONC => JSON
	cfgJson, err = standardizeJSON(cfgJson)
	if err != nil {
		log.Fatal(err)
	}
	// Parse
	if err := json.Unmarshal(cfgJson, obj); err != nil {
		log.Fatal(err)
	}
}

func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()
	return ast.Pack(), nil
}
