package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/fixturelab/jiranon/src/utils"
)

// BoolVar registers a BoolStr flag that accepts explicit true/false values
// and also works bare (--resume is --resume true).
func BoolVar(flagSet *pflag.FlagSet, p *utils.BoolStr, name string, value bool, usage string) {
	*p = utils.BoolStr(value)
	flagSet.Var(p, name, fmt.Sprintf("%s (default %t)", usage, value))
	flagSet.Lookup(name).NoOptDefVal = "true"
}
