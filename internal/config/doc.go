// Package config manages user-level settings stored at
// ~/.scaffolder/config.yaml, overridable through SCAFFOLDER_* environment
// variables. It resolves the template base URL, the HTTP user agent and the
// request timeout used when fetching templates.
package config
