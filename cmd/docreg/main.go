package main

import (
	"log"

	"github.com/patric-chuzhbe/docreg/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	theApp, err := app.New()
	if err != nil {
		return err
	}
	defer theApp.Close()

	return theApp.Run()
}
