package main

import (
	"github.com/pyneda/simplesoap/cmd"
	"github.com/pyneda/simplesoap/internal/config"
)

func main() {
	config.LoadConfig()
	cmd.Execute()
}
