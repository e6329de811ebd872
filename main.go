package main

import "github.com/KaramelBytes/pmaxreport/cmd"

func main() {
	cmd.Execute()
}
