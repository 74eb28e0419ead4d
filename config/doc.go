// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A .env file, when present, is loaded first so environment variables can
// override the listen port and feed URLs without editing the yaml.
package config
