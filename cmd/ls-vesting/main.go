package main

import (
	"github.com/session-foundation/sn-liquidator/cli"
	"github.com/session-foundation/sn-liquidator/cli/vesting"
)

var (
	AppName = "Vesting contract reporter"
	Version = "latest"
)

func main() {
	cli.Execute(AppName, Version, vesting.Cmd)
}
