// Command beachparty runs the beach party agents as A2A servers.
package main

func main() {
	Execute()
}
