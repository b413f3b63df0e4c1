// Command authzctl drives the authzcore authorization engine from the
// command line.
package main

import "github.com/sentrypolicy/authzcore/cmd/authzctl/cmd"

func main() {
	cmd.Execute()
}
