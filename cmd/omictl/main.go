// Command omictl drives the fitness connection and alerts from a terminal
// using the same storage as the server.
package main

func main() {
	Execute()
}
