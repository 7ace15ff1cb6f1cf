package main

import (
	"github.com/hexaswarm/swarmctl/cmd/swarmctl/cmd"
)

func main() {
	cmd.Execute()
}
