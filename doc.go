/*
Package morselink translates free-form text into International Morse and streams it,
one line at a time, over a point-to-point serial link to a remote peer.

# Concept

Three pieces carry the logic. The code table (pkg/codetable) maps Latin, Cyrillic, digit
and punctuation characters to dot/dash codes. The transcoder (pkg/transcoder) validates
input and frames the code: letters separated by one space, words by " / ". The link
session (pkg/link) discovers the peer by name, checks permissions, connects and sends.

The host (CLI, HTTP server, MCP agent) supplies the serial transport and the permission
gate through the interfaces in pkg/ports, so the same core runs over TCP bridges, bound
RFCOMM devices or in memory.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/morselink"
		"github.com/aretw0/morselink/pkg/adapters/tcp"
		"github.com/aretw0/morselink/pkg/ports"
	)

	func main() {
		transport := tcp.NewTransport([]ports.Peer{
			{Name: "raspberrypi", Address: "192.168.1.20:7000"},
		})

		m, err := morselink.New(transport, nil)
		if err != nil {
			log.Fatal(err)
		}
		defer m.Close()

		res, err := m.Transmit(context.Background(), "hello world")
		if err != nil {
			log.Fatalf("%s: %v", res.Key(), err)
		}
		log.Println("sent:", res.Code)
	}
*/
package morselink
