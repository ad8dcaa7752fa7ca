package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "5s" or as whole seconds. Empty fields keep the value
// already present in Config.
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	RefreshPath     string         `json:"refresh_path"`
	LoginPath       string         `json:"login_path"`
	RegisterPath    string         `json:"register_path"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	StorePath       string         `json:"store_path"`
	StorePassphrase string         `json:"store_passphrase"`
	ReturnPath      string         `json:"return_path"`
	GRPCAddr        string         `json:"grpc_addr"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given with -c or -config (see flagx.JsonConfigFlags). Without that flag
// nothing happens. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.RefreshPath, jc.RefreshPath)
	setString(&cfg.LoginPath, jc.LoginPath)
	setString(&cfg.RegisterPath, jc.RegisterPath)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.StorePassphrase, jc.StorePassphrase)
	setString(&cfg.ReturnPath, jc.ReturnPath)
	setString(&cfg.GRPCAddr, jc.GRPCAddr)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
