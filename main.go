package main

import "github.com/Stefan/ppm-saas-sub008/cmd"

func main() {
	cmd.Execute()
}
