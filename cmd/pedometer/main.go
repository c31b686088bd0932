package main

import (
	"github.com/2beens/pedometer/cmd/pedometer/commands"
)

func main() {
	commands.Execute()
}
