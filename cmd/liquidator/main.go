package main

import (
	"github.com/session-foundation/sn-liquidator/cli"
	"github.com/session-foundation/sn-liquidator/cli/liquidator"
)

var (
	AppName = "Service node liquidator"
	Version = "latest"
)

func main() {
	cli.Execute(AppName, Version, liquidator.Cmd)
}
