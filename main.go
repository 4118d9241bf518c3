package main

import "github/chapool/ledger-signer/cmd"

func main() {
	cmd.Execute()
}
