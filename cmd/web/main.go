package main

import "hrapp/internal/app/web"

func main() {
	web.Run()
}
