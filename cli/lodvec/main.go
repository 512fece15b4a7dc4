// Package main is the lodvec command itself.
package main

import (
	"log"
	"os"

	"github.com/lodvec/lodvec/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
