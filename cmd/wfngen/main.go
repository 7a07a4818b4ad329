// Package main provides the wfngen CLI for generating wavefunction
// calculation scripts.
package main

func main() {
	Execute()
}
