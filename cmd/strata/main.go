// Package main provides the strata CLI.
package main

import "github.com/strataworks/strata/internal/cli"

func main() {
	cli.Execute()
}
