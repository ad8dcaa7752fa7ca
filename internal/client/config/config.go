package config

import "time"

// Config holds runtime settings for the gophauth CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host:port every request path is resolved against.
//   - RefreshPath, LoginPath, RegisterPath: endpoint paths on the server.
//   - RequestTimeout: per-request deadline applied by the HTTP transport.
//   - StorePath: SQLite file holding the credentials.
//   - StorePassphrase: when set, tokens are sealed before they are written.
//   - ReturnPath: where a forced logout sends the user back to.
//   - GRPCAddr: host:port of the server's gRPC endpoint; empty disables it.
type Config struct {
	ServerBaseURL   string
	RefreshPath     string
	LoginPath       string
	RegisterPath    string
	RequestTimeout  time.Duration
	StorePath       string
	StorePassphrase string
	ReturnPath      string
	GRPCAddr        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.RefreshPath = "/auth/refresh"
	c.LoginPath = "/auth/login"
	c.RegisterPath = "/auth/register"
	c.RequestTimeout = 5 * time.Second
	c.StorePath = "credentials.db"
	c.StorePassphrase = ""
	c.ReturnPath = "/"
	c.GRPCAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present). Command-line flags are applied later by the command
// tree through BindFlags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	return cfg
}
