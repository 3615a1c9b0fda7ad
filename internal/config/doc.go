// Package config loads store.json, the configuration file for storectl.
//
// Example store.json:
//
//	{
//	  "name": "demo",
//	  "log": {"level": "debug", "format": "text"},
//	  "metrics": {"enabled": true, "addr": "127.0.0.1:9464", "namespace": "store"},
//	  "demo": {"scenario": "counter", "steps": 3}
//	}
//
// Missing fields take the defaults from New. Command-line flags override
// file values.
package config
