// Command bufeval evaluates tiles of a workload mapping on buffer levels.
package main

import "github.com/sarchlab/bufeval/bufeval/cmd"

func main() {
	cmd.Execute()
}
