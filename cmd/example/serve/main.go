// Command serve hosts the walk environment for an external trainer over
// HTTP: the training definition, session start, and the step/reset exchange
// all go through the transport while the simulation ticks locally. Episode
// returns are written out as CSV when the trainer closes the session.
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorgonia/agora/envs/walk"
	"github.com/gorgonia/agora/train"
)

const (
	addr         = ":8090"
	tickInterval = 20 * time.Millisecond
	exchangeWait = time.Minute
	statsFile    = "walk_returns.csv"
)

func main() {
	transport := train.NewHTTPTransport(exchangeWait)
	conn := train.NewConnector(transport, walk.NewEnv())
	if err := conn.Init(); err != nil {
		log.Fatal(err)
	}

	stats := train.NewStatistics()
	dump := func() {
		if err := stats.Dump(statsFile); err != nil {
			log.Printf("stats dump failed: %v", err)
			return
		}
		log.Printf("wrote %s", statsFile)
	}
	conn.OnStarted = func() { log.Printf("trainer connected, auto-reset %v", conn.Mode()) }
	conn.OnClosed = dump

	go func() {
		log.Println("trainer endpoint on http://localhost" + addr)
		if err := http.ListenAndServe(addr, transport); err != nil {
			log.Fatal(err)
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var counted uint64
	idle := make([]bool, len(conn.State.EnvironmentStates))
	for range ticker.C {
		// An environment already completed before the decision produces
		// nothing new this step; its stale state must not recount.
		for i, envState := range conn.State.EnvironmentStates {
			idle[i] = envState.IsCompleted()
		}
		conn.Step()
		if n := conn.Steps(); n != counted {
			counted = n
			for i, envState := range conn.State.EnvironmentStates {
				if idle[i] {
					continue
				}
				stats.Update(i, envState)
			}
		}
		if conn.Status() == train.Errored {
			log.Printf("session errored; trace:\n%s", conn.Log())
			dump()
			return
		}
	}
}
