// Command walk runs the 1-D walk fixture end to end: a few random-policy
// episodes rendered to an animated GIF and a live MJPEG stream, then the
// same track driven by an untrained neural policy behind the pipelined
// stepper. It exists to show the whole loop wired together, not to learn
// anything.
package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorgonia/agora"
	"github.com/gorgonia/agora/encoding/gif"
	"github.com/gorgonia/agora/encoding/mjpeg"
	"github.com/gorgonia/agora/envs/walk"
	"github.com/gorgonia/agora/infer"
	"github.com/gorgonia/agora/spaces"
)

const (
	episodes = 3
	maxTicks = 64

	gifFile = "walk.gif"
	dotFile = "walk_spaces.dot"
	addr    = ":8080"

	frameH = 400
	frameW = 600
)

func main() {
	agent := walk.NewAgent()
	def := agent.Define()

	// The interaction definition as a Graphviz doc, for the curious.
	if dot, err := spaces.Dot(def.ObsSpace); err == nil {
		ioutil.WriteFile(dotFile, []byte(dot), 0644)
	}

	// Live view at http://localhost:8080/stream while episodes run.
	stream := mjpeg.NewEncoder(frameH, frameW)
	go func(h http.Handler) {
		mux := http.NewServeMux()
		mux.Handle("/stream", h)
		log.Println("live view on http://localhost" + addr + "/stream")
		http.ListenAndServe(addr, mux)
	}(stream)

	f, err := os.Create(gifFile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	anim := gif.NewGifEncoder(frameH, frameW)
	anim.Writer = f

	randomEpisodes(agent, anim, stream)
	if err := anim.Flush(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", gifFile)

	neuralEpisode(agent)
}

// randomEpisodes drives the agent with uniformly sampled actions through the
// synchronous stepper, rendering every tick.
func randomEpisodes(agent *walk.Agent, encoders ...agora.OutputEncoder) {
	policy := agora.NewUniformPolicy(time.Now().UnixNano())
	if err := policy.Init(agent.Define()); err != nil {
		log.Fatal(err)
	}
	stepper := agora.NewSimpleStepper()
	if err := stepper.Init([]agora.Agent{agent}, policy); err != nil {
		log.Fatal(err)
	}

	var tick uint64
	for ep := 0; ep < episodes; ep++ {
		agent.Reset()
		start := tick
		for t := 0; t < maxTicks && agent.Status() == agora.AgentRunning; t++ {
			stepper.Step()
			tick++
			snap := agora.TickSnapshot{St: &agent.Walk, Nm: "random walk", Ep: ep, Tk: tick}
			for _, enc := range encoders {
				if err := enc.Encode(snap); err != nil {
					log.Printf("encode failed: %v", err)
				}
			}
		}
		fmt.Printf("episode %d: position %+v after %d ticks  %v\n", ep, agent.Position, tick-start, agent.Walk.String())
	}
}

// neuralEpisode runs one episode with an untrained network behind the
// pipelined stepper. Actions lag observations by a tick; the point is the
// plumbing, not the play.
func neuralEpisode(agent *walk.Agent) {
	def := agent.Define()
	net, err := infer.NewNetwork(def.ObsSpace.FlattenedSize(), def.ActionSpace.FlattenedSize(), 0, false)
	if err != nil {
		log.Fatal(err)
	}
	defer net.Close()

	policy := infer.NewNNPolicy(net)
	if err := policy.Init(def); err != nil {
		log.Fatal(err)
	}
	stepper := agora.NewPipelinedStepper()
	if err := stepper.Init([]agora.Agent{agent}, policy); err != nil {
		log.Fatal(err)
	}
	defer stepper.Close()

	agent.Reset()
	ticks := 0
	for ; ticks < maxTicks && agent.Status() == agora.AgentRunning; ticks++ {
		stepper.Step()
	}
	fmt.Printf("neural episode: position %+v after %d ticks  %v\n", agent.Position, ticks, agent.Walk.String())
}
