package main

import "github.com/safar/inventory-api/cmd/migrate/commands"

func main() {
	commands.Execute()
}
