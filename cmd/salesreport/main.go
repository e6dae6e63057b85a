package main

import "salesreport/internal/cli"

func main() {
	cli.Execute()
}
