package main

import (
	"strconv"

	"github.com/spf13/viper"

	"github.com/eak1mov/go-vikcache/convert"
	"github.com/eak1mov/go-vikcache/legacy"
)

// settings are the defaults shared by every subcommand. Flags override them.
type settings struct {
	TilesetID string
	CacheDir  string
	LogLevel  string
	Workers   int
}

// loadSettings reads VIKCACHE_* environment variables through v.
func loadSettings(v *viper.Viper) settings {
	v.SetEnvPrefix("vikcache")
	v.AutomaticEnv()

	v.SetDefault("tileid", strconv.Itoa(legacy.DefaultTilesetID))
	v.SetDefault("cache_dir", convert.DefaultCacheDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("workers", 1)

	return settings{
		TilesetID: v.GetString("tileid"),
		CacheDir:  v.GetString("cache_dir"),
		LogLevel:  v.GetString("log_level"),
		Workers:   v.GetInt("workers"),
	}
}
