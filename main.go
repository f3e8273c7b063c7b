// Package main is the entry point for the streamsnag application.
package main

import (
	"github.com/samber/lo"
	"github.com/streamsnag-cli/streamsnag/cmd"
	"github.com/streamsnag-cli/streamsnag/config"
	"github.com/streamsnag-cli/streamsnag/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
