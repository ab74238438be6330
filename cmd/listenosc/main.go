package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hypebeast/go-osc/osc"

	"github.com/jdginn/rcposc/devices"
	"github.com/jdginn/rcposc/translate"
)

// listenosc prints every OSC message it receives alongside the RCP command the
// bridge would send the console for it. Point the bridge's -udp-osc-out-port
// here to watch console traffic.
func main() {
	port := flag.Int("port", 0, "UDP port to listen for OSC messages")
	flag.Parse()

	if *port == 0 {
		fmt.Println("Usage: listenosc -port <port>")
		os.Exit(1)
	}
	addr := "0.0.0.0:" + strconv.Itoa(*port)

	dispatcher := osc.NewStandardDispatcher()
	dispatcher.AddMsgHandler("*", func(msg *osc.Message) {
		fmt.Println(describe(msg))
	})

	server := &osc.Server{
		Addr:       addr,
		Dispatcher: dispatcher,
	}

	fmt.Printf("Listening for OSC messages on %s (UDP)...\n", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start OSC server: %v", err)
	}
}

func describe(msg *osc.Message) string {
	m, err := devices.FromOscMessage(msg)
	if err != nil {
		return fmt.Sprintf("%s %v (no rcp form: %v)", msg.Address, msg.Arguments, err)
	}
	cmd, err := translate.ToRCP(m)
	if err != nil {
		return fmt.Sprintf("%s (no rcp form: %v)", m, err)
	}
	return fmt.Sprintf("%s -> %s", m, cmd)
}
