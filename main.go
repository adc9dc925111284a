package main

import (
	// Modules of texwiz
	"github.com/packwiz/texwiz/cmd"
	_ "github.com/packwiz/texwiz/settings"
	_ "github.com/packwiz/texwiz/utils"
)

func main() {
	cmd.Execute()
}
