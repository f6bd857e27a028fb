package devices

import "iter"

// Bus discovers devices attached to a bus. Probe returns a lazy sequence:
// each element is either a tagged device or the error of one entry. A
// failed entry does not end the sequence.
type Bus interface {
	// Name returns the bus name used in log records.
	Name() string

	// Probe enumerates the devices on the bus.
	Probe() iter.Seq2[Device, error]
}

type funcBus struct {
	name string
	seq  iter.Seq2[Device, error]
}

func (b funcBus) Name() string { return b.name }
func (b funcBus) Probe() iter.Seq2[Device, error] { return b.seq }

// BusFunc returns a Bus named name that enumerates seq.
func BusFunc(name string, seq iter.Seq2[Device, error]) Bus {
	return funcBus{name: name, seq: seq}
}
