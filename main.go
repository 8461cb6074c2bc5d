package main

import "api_inventory/cmd"

func main() {
	cmd.Execute()
}
