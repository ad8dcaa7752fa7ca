package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the client flags on fs with the current values of cfg
// as defaults, so parsing fs overrides whatever defaults and JSON produced.
//
//	-a, --server      base URL of the backend
//	-t, --timeout     per-request timeout
//	-s, --store       path of the credential database
//	    --passphrase  passphrase sealing the stored tokens
//	-g, --grpc        gRPC address of the server
//	-c, --config      JSON config file (read before flags are parsed)
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.ServerBaseURL, "server", "a", cfg.ServerBaseURL, "base URL of the server")
	fs.DurationVarP(&cfg.RequestTimeout, "timeout", "t", cfg.RequestTimeout, "request timeout")
	fs.StringVarP(&cfg.StorePath, "store", "s", cfg.StorePath, "path of the credential database")
	fs.StringVar(&cfg.StorePassphrase, "passphrase", cfg.StorePassphrase, "passphrase used to seal stored tokens")
	fs.StringVar(&cfg.RefreshPath, "refresh-path", cfg.RefreshPath, "path of the token refresh endpoint")
	fs.StringVar(&cfg.ReturnPath, "return-path", cfg.ReturnPath, "location reported on forced logout")
	fs.StringVarP(&cfg.GRPCAddr, "grpc", "g", cfg.GRPCAddr, "gRPC address of the server (host:port)")

	// Consumed by parseJson before the command tree runs; registered so the
	// parser accepts it.
	fs.StringP("config", "c", "", "path to JSON config file")
}
