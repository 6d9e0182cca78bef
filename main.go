package main

import (
	"os"

	"github.com/Jokero/webpack.js.org/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
