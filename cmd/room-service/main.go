// Package main is the room-service entry point (HTTP + WebSocket + worker).
package main

import (
	"log"

	"github.com/nextalk/room-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
