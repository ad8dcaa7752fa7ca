// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags registered by BindFlags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "refresh_path": "/auth/refresh",
//	  "request_timeout": "5s",
//	  "store_path": "credentials.db",
//	  "return_path": "/"
//	}
//
// This package does not read environment variables.
package config
