// Package config holds the settings of a sort run, populated from command line flags.
package config
