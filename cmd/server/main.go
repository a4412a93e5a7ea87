package main

import "hrapp/internal/app/server"

func main() {
	server.Run()
}
