package train

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Statistics accumulates per-agent episode returns and lengths as training
// states roll past. Agents are tracked by "env<id>/<name>" keys in
// first-seen order.
type Statistics struct {
	Order   []string
	Returns map[string][]float32
	Lengths map[string][]int

	running map[string]*episodeAccum
}

type episodeAccum struct {
	ret    float32
	length int
}

func NewStatistics() *Statistics {
	return &Statistics{
		Order:   make([]string, 0, 16),
		Returns: make(map[string][]float32),
		Lengths: make(map[string][]int),
		running: make(map[string]*episodeAccum),
	}
}

// Update folds one environment's stepped state into the running episode
// accumulators. An agent whose episode just completed closes out its return.
func (s *Statistics) Update(envID int, env *EnvironmentState) {
	names := make([]string, 0, len(env.AgentStates))
	for name := range env.AgentStates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		agent := env.AgentStates[name]
		key := fmt.Sprintf("env%d/%s", envID, name)
		acc, ok := s.running[key]
		if !ok {
			acc = &episodeAccum{}
			s.running[key] = acc
			s.Order = append(s.Order, key)
		}
		acc.ret += agent.Reward
		acc.length++
		if agent.Completed() {
			s.Returns[key] = append(s.Returns[key], acc.ret)
			s.Lengths[key] = append(s.Lengths[key], acc.length)
			acc.ret = 0
			acc.length = 0
		}
	}
}

// Episodes returns how many completed episodes the agent key has recorded.
func (s *Statistics) Episodes(key string) int { return len(s.Returns[key]) }

// Dump writes the completed episode returns as CSV: a header row of agent
// keys, then one row per episode index with blanks where an agent has fewer
// episodes.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.Order); err != nil {
		return err
	}

	episodes := 0
	for _, key := range s.Order {
		if n := len(s.Returns[key]); n > episodes {
			episodes = n
		}
	}

	var records [][]string
	for ep := 0; ep < episodes; ep++ {
		record := make([]string, len(s.Order))
		for i, key := range s.Order {
			if ep < len(s.Returns[key]) {
				record[i] = strconv.FormatFloat(float64(s.Returns[key][ep]), 'f', 3, 32)
			}
		}
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
