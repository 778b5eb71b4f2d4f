package main

import (
	"github.com/niels/static-server/internal/cmd"
)

func main() {
	cmd.Execute()
}
