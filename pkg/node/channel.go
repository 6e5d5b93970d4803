// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package node

// Message is one unit of data flowing on a channel.
type Message struct {
	Payload []byte
}

// Input is the receiving end of a host channel.
type Input struct {
	name string
	ch   chan Message
}

// Name returns the port name the channel is wired to.
func (in *Input) Name() string { return in.name }

// Recv blocks until a message is available or the channel is closed.
// ok is false once the channel is closed and drained.
func (in *Input) Recv() (msg Message, ok bool) {
	msg, ok = <-in.ch
	return msg, ok
}

// Output is the sending end of a host channel.
type Output struct {
	name string
	ch   chan Message
}

// Name returns the port name the channel is wired to.
func (out *Output) Name() string { return out.name }

// Send blocks until the channel accepts the message. Back-pressure is the
// channel's own: a full channel blocks the sender.
func (out *Output) Send(msg Message) {
	out.ch <- msg
}

// Close closes the underlying channel. Receivers observe ok == false after
// the channel drains.
func (out *Output) Close() {
	close(out.ch)
}

// Inputs maps port names to input handles.
type Inputs map[string]*Input

// Outputs maps port names to output handles.
type Outputs map[string]*Output

// Pipe creates a connected channel pair with the given capacity. The host
// uses it to wire graph edges; tests use it to stand in for the host.
func Pipe(name string, capacity int) (*Output, *Input) {
	ch := make(chan Message, capacity)
	return &Output{name: name, ch: ch}, &Input{name: name, ch: ch}
}
