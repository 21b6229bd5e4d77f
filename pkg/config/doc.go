// Package config loads ewsparse configuration files.
//
// Files are YAML (.yaml, .yml), TOML (.toml) or JSON (anything else):
//
//	logging:
//	  level: debug
//	  format: json
//	  file: /var/log/ewsparse.log
//	namespaces:
//	  t: http://schemas.microsoft.com/exchange/services/2006/types
//	output:
//	  format: yaml
//	  pretty: true
//
// Environment variables (EWSPARSE_LOG_LEVEL, EWSPARSE_LOG_FORMAT,
// EWSPARSE_LOG_FILE, EWSPARSE_OUTPUT_FORMAT) override file values when
// ApplyEnv is called.
package config
