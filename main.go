package main

import "github.com/ValentinKolb/imgrpc/cmd"

func main() {
	cmd.Execute()
}
