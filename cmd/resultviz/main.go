// cmd/resultviz/main.go
package main

import (
	cmd "github.com/clram/resultviz/internal/cli"
)

// main starts the resultviz CLI application by delegating to the
// cobra root command defined in the resultviz package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
