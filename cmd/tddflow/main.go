package main

import (
	"fmt"

	"github.com/tddworks/tddflow/internal/tddflow/commands"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	commands.RootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	commands.Execute()
}
