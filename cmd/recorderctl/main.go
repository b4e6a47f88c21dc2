// recorderctl is a command-line client for a running recorder daemon.
package main

func main() {
	Execute()
}
