package main

import (
	"context"
	"time"

	"flighttrack-go/bus"
	"flighttrack-go/services/tracker"
	"flighttrack-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.Background()

	b := bus.NewBus(8)
	trackConn := b.NewConnection("tracker")
	monConn := b.NewConnection("monitor")

	println("[main] subscribing to tracker/# for diagnostics …")
	mon := monConn.Subscribe(bus.T("tracker", "#"))
	go func() {
		for m := range mon.Channel() {
			println("[monitor] <-", m.Topic.String())
		}
	}()

	// Zero config: the service fills in board defaults.
	var cfg types.TrackerConfig

	println("[main] starting tracker.Run …")
	if err := tracker.Run(ctx, trackConn, tracker.DefaultDeps(), cfg); err != nil {
		println("[main] tracker stopped:", err.Error())
	}
}
