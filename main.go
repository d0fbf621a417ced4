package main

import "github/chapool/hd-wallet/cmd"

func main() {
	cmd.Execute()
}
