package main

import "github.com/ashgrove-hs/housepoints/cmd/server/cmd"

func main() {
	cmd.Execute()
}
