package main

import "github.com/OpenTraceLab/drillmerge/cmd/drillmerge/cmd"

func main() {
	cmd.Execute()
}
