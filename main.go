package main

import (
	"os"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
