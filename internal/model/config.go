package model

import "time"

// Config holds all pointclaim configuration
type Config struct {
	Identity  IdentityConfig  `yaml:"identity" mapstructure:"identity"`
	Rewards   RewardsConfig   `yaml:"rewards" mapstructure:"rewards"`
	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Refresh   RefreshConfig   `yaml:"refresh" mapstructure:"refresh"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Workers   WorkerConfig    `yaml:"workers" mapstructure:"workers"`
	LogServer LogServerConfig `yaml:"log_server" mapstructure:"log_server"`
	Schedule  string          `yaml:"schedule" mapstructure:"schedule"` // Cron expression for repeated runs, empty runs once
	Verbose   bool            `yaml:"verbose" mapstructure:"verbose"`
}

// IdentityConfig holds the headers that identify the client to the rewards API
type IdentityConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	ServerSelect string `yaml:"server_select" mapstructure:"server_select"` // X-Server-Select
	DeviceName   string `yaml:"device_name" mapstructure:"device_name"`     // Device-Name
	AppVersion   string `yaml:"app_version" mapstructure:"app_version"`     // Sent as the "v" query parameter
}

// RewardsConfig holds the rewards API endpoints
type RewardsConfig struct {
	ClaimListURL string `yaml:"claim_list_url" mapstructure:"claim_list_url"`
	ClaimURL     string `yaml:"claim_url" mapstructure:"claim_url"`
	DashboardURL string `yaml:"dashboard_url" mapstructure:"dashboard_url"`
}

// SourceConfig describes where account records come from
type SourceConfig struct {
	DataURL   string   `yaml:"data_url" mapstructure:"data_url"`     // Queried with ?r=<db id>
	DBIDs     []string `yaml:"db_ids" mapstructure:"db_ids"`         // Processed in order
	BackupDir string   `yaml:"backup_dir" mapstructure:"backup_dir"` // Where backup_<id>.json files go
}

// RefreshConfig describes the phone-number refresh job
type RefreshConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	PhonesURL  string `yaml:"phones_url" mapstructure:"phones_url"`
	RefreshURL string `yaml:"refresh_url" mapstructure:"refresh_url"` // Queried with ?phone=<number>
	Workers    int    `yaml:"workers" mapstructure:"workers"`         // 0 means unbounded
	Progress   bool   `yaml:"progress" mapstructure:"progress"`
}

// HTTPConfig holds outbound HTTP client settings
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 means no timeout
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per host, 0 means unlimited
	Burst             int           `yaml:"burst" mapstructure:"burst"`

	HostRates []HostRate `yaml:"host_rates,omitempty" mapstructure:"host_rates"` // Per-host overrides of RequestsPerSecond
}

// HostRate paces requests to one host. Host names are kept out of map keys
// because viper splits keys on dots.
type HostRate struct {
	Host              string  `yaml:"host" mapstructure:"host"` // host[:port] as it appears in request URLs
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst,omitempty" mapstructure:"burst"` // 0 uses the global burst
}

// WorkerConfig bounds the per-account fan-out
type WorkerConfig struct {
	Accounts int `yaml:"accounts" mapstructure:"accounts"` // 0 means one worker per account
}

// LogServerConfig configures the log viewing server
type LogServerConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	LogFile  string        `yaml:"log_file" mapstructure:"log_file"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 reads the file on every request
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Identity: IdentityConfig{
			UserAgent:    "MyTM/4.11.0/Android/30",
			ServerSelect: "production",
			DeviceName:   "Xiaomi Redmi Note 8 Pro",
			AppVersion:   "4.11.0",
		},
		Rewards: RewardsConfig{
			ClaimListURL: "https://store.atom.com.mm/mytmapi/v1/my/point-system/claim-list",
			ClaimURL:     "https://store.atom.com.mm/mytmapi/v1/my/point-system/claim",
			DashboardURL: "https://store.atom.com.mm/mytmapi/v1/my/dashboard",
		},
		Source: SourceConfig{
			DataURL:   "https://api.xalyon.xyz/v2/get/",
			DBIDs:     []string{"1", "2", "3", "4"},
			BackupDir: ".",
		},
		Refresh: RefreshConfig{
			Enabled:    true,
			PhonesURL:  "https://api.xalyon.xyz/v2/phone",
			RefreshURL: "https://api.xalyon.xyz/v2/refresh/",
			Workers:    0,
			Progress:   true,
		},
		HTTP: HTTPConfig{
			Burst: 5,
		},
		LogServer: LogServerConfig{
			Addr:    "0.0.0.0:5000",
			LogFile: "/root/B/net.log",
		},
	}
}
