package agora

import "fmt"

// Snapshot is one tick's worth of renderable simulation state.
type Snapshot interface {
	// State returns something printable. Encoders render its string form.
	State() fmt.Stringer
	Name() string
	Episode() int
	Tick() uint64
}

// OutputEncoder encodes a stream of snapshots as whatever.
//
// An example OutputEncoder is the GIF encoder. Another example would be a
// logger.
type OutputEncoder interface {
	Encode(s Snapshot) error
	Flush() error
}

// ExecLogger is anything that can return the execution log.
type ExecLogger interface {
	ExecLog() string
}

// TickSnapshot is a plain-data Snapshot.
type TickSnapshot struct {
	St fmt.Stringer
	Nm string
	Ep int
	Tk uint64
}

func (t TickSnapshot) State() fmt.Stringer { return t.St }
func (t TickSnapshot) Name() string        { return t.Nm }
func (t TickSnapshot) Episode() int        { return t.Ep }
func (t TickSnapshot) Tick() uint64        { return t.Tk }
