package main

import (
	"os"

	"github.com/mobileshop/billing/cmd/billingctl/cli"
)

func main() {
	os.Exit(cli.Execute())
}
