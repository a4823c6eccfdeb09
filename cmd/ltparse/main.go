package main

import "github.com/Electro707/ltspice-data-parser/cmd/ltparse/cmd"

func main() {
	cmd.Execute()
}
