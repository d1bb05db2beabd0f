package main

import "github.com/ignatzorin/classifieds-backend/cmd/adsctl/commands"

func main() {
	commands.Execute()
}
