// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

//go:build integration

package operator_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/atolab/zenoh-flow-python/internal/operator"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

const upperScript = `class Upper:
    def __init__(self, context, configuration, inputs, outputs):
        self.inp = inputs["in"]
        self.out = outputs["out"]

    async def iteration(self):
        self.out.send(self.inp.recv().upper())

    def finalize(self):
        self.out.send(b"__closed__")


def register():
    return Upper
`

const suffixScript = `class Suffix:
    def __init__(self, context, configuration, inputs, outputs):
        self.suffix = (configuration or {}).get("suffix", "!").encode()
        self.inp = inputs["in"]
        self.out = outputs["out"]

    async def iteration(self):
        self.out.send(self.inp.recv() + self.suffix)


def register():
    return Suffix
`

func writeScript(dir, name, source string) string {
	path := filepath.Join(dir, name)
	ExpectWithOffset(1, os.WriteFile(path, []byte(source), 0o600)).To(Succeed())
	return path
}

var _ = Describe("Python operator lifecycle", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("constructs, iterates and closes a single operator", func() {
		feed, in := node.Pipe("in", 8)
		out, sink := node.Pipe("out", 8)

		op, err := operator.New(
			node.Context{RuntimeName: "it-runtime", FlowName: "it-flow", NodeID: "upper"},
			node.Configuration{operator.ScriptKey: writeScript(dir, "upper.py", upperScript)},
			node.Inputs{"in": in},
			node.Outputs{"out": out},
		)
		Expect(err).NotTo(HaveOccurred())

		feed.Send(node.Message{Payload: []byte("hello")})
		Expect(op.Iteration()).To(Succeed())

		msg, ok := sink.Recv()
		Expect(ok).To(BeTrue())
		Expect(string(msg.Payload)).To(Equal("HELLO"))

		Expect(op.Close()).To(Succeed())
		msg, ok = sink.Recv()
		Expect(ok).To(BeTrue())
		Expect(string(msg.Payload)).To(Equal("__closed__"))
	})

	It("flows messages through two chained operators", func() {
		feed, upperIn := node.Pipe("in", 8)
		link, suffixIn := node.Pipe("link", 8)
		out, sink := node.Pipe("out", 8)

		upper, err := operator.New(
			node.Context{RuntimeName: "it-runtime", FlowName: "it-flow", NodeID: "upper"},
			node.Configuration{operator.ScriptKey: writeScript(dir, "upper.py", upperScript)},
			node.Inputs{"in": upperIn},
			node.Outputs{"out": link},
		)
		Expect(err).NotTo(HaveOccurred())
		defer upper.Close() //nolint:errcheck

		suffix, err := operator.New(
			node.Context{RuntimeName: "it-runtime", FlowName: "it-flow", NodeID: "suffix"},
			node.Configuration{
				operator.ScriptKey: writeScript(dir, "suffix.py", suffixScript),
				operator.ConfigKey: map[string]any{"suffix": "?"},
			},
			node.Inputs{"in": suffixIn},
			node.Outputs{"out": out},
		)
		Expect(err).NotTo(HaveOccurred())
		defer suffix.Close() //nolint:errcheck

		for _, word := range []string{"ping", "pong"} {
			feed.Send(node.Message{Payload: []byte(word)})
			Expect(upper.Iteration()).To(Succeed())
			Expect(suffix.Iteration()).To(Succeed())
		}

		for _, want := range []string{"PING?", "PONG?"} {
			msg, ok := sink.Recv()
			Expect(ok).To(BeTrue())
			Expect(string(msg.Payload)).To(Equal(want))
		}
	})
})
