package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/google/subcommands"
	"github.com/spf13/viper"

	"github.com/eak1mov/go-vikcache/convert"
)

func main() {
	settings := loadSettings(viper.New())

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	for _, mode := range []convert.Mode{
		convert.LegacyToStore,
		convert.StoreToLegacy,
		convert.LegacyToStandard,
		convert.StandardToLegacy,
	} {
		subcommands.Register(newModeCmd(mode, settings), "modes")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
