package main

import (
	"flag"

	"go.uber.org/fx"

	"github.com/matheus3301/chatlens/internal/daemon"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address (overrides config listen_addr)")
	dataDirFlag := flag.String("data-dir", "", "workspace directory (overrides config data_dir)")
	flag.Parse()

	app := fx.New(
		daemon.Module(daemon.Params{
			Addr:    *addrFlag,
			DataDir: *dataDirFlag,
		}),
	)

	app.Run()
}
