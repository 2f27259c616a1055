// Package main is the entry point for abrplay.
package main

import (
	"github.com/abrplay/abrplay/cmd"
	"github.com/abrplay/abrplay/config"
	"github.com/abrplay/abrplay/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
