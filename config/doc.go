// Package config provides Viper-based configuration loading for the
// tokenboard server: listen address, lobby name, finished-game retention,
// static asset directory, and logging settings.
package config
