// Package config defines the application configuration and loads it with
// viper from command-line flags, PARFOR_* environment variables and an
// optional config file.
package config
