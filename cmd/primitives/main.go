// Package main is the entry point for the primitives bank API.
package main

import (
	_ "github.com/artpar/primitives/domain/bank/ledger"
)

func main() {
	Execute()
}
