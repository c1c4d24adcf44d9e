// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler_test

import (
	"errors"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/gorv32/pkg/assembler"
)

var _ = Describe("Pipeline", func() {
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("Source cleaning", func() {
		It("strips comments and blank lines", func() {
			cleaned := assembler.CleanSource([]string{
				"; header",
				"",
				"  add t0, t1, t2 ; sum",
				"\t; nothing here",
			})

			Expect(cleaned).To(Equal([]string{"add t0, t1, t2 "}))
		})

		It("is idempotent", func() {
			cleaned := assembler.CleanSource([]string{
				"main: addi t0, x0, 5 ; start",
				"\tjal x0, main",
			})

			Expect(assembler.CleanSource(cleaned)).To(Equal(cleaned))
		})
	})

	Describe("Address assignment", func() {
		It("advances one word per instruction from the text base", func() {
			insts, labels, err := assembler.ParseLabels([]string{
				"first: add x0, x0, x0",
				"add x0, x0, x0",
				"last: add x0, x0, x0",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(insts).To(HaveLen(3))
			Expect(labels.Addrs).To(
				HaveKeyWithValue("first", uint32(0x00400000)),
			)
			Expect(labels.Addrs).To(
				HaveKeyWithValue("last", uint32(0x00400008)),
			)
			Expect(labels.Order).To(Equal([]string{"first", "last"}))
		})

		It("binds stacked labels to the same address", func() {
			_, labels, err := assembler.ParseLabels([]string{
				"outer:",
				"inner:",
				"add x0, x0, x0",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(labels.Addrs).To(
				HaveKeyWithValue("outer", uint32(0x00400000)),
			)
			Expect(labels.Addrs).To(
				HaveKeyWithValue("inner", uint32(0x00400000)),
			)
		})
	})

	Describe("Pseudo expansion", func() {
		It("passes unregistered mnemonics through", func() {
			registry := NewMockPseudoRegistry(ctrl)

			registry.EXPECT().Lookup("add").Return(nil, false)

			lines, err := assembler.ExpandPseudos(
				[]string{"add t0, t1, t2"}, registry,
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"add t0, t1, t2"}))
		})

		It("splices the expansion in place of its source line", func() {
			registry := NewMockPseudoRegistry(ctrl)
			rule := NewMockPseudoRule(ctrl)

			registry.EXPECT().Lookup("double").Return(rule, true)
			rule.EXPECT().Expand("double t0, t1", 0).Return(
				[]string{"add t0, t1, t1"}, nil,
			)

			lines, err := assembler.ExpandPseudos(
				[]string{"double t0, t1"}, registry,
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"add t0, t1, t1"}))
		})

		It("does not rescan expanded lines", func() {
			registry := NewMockPseudoRegistry(ctrl)
			rule := NewMockPseudoRule(ctrl)

			registry.EXPECT().Lookup("double").Return(rule, true).Times(1)
			rule.EXPECT().Expand("double t0, t1", 0).Return(
				[]string{"double t0, t1"}, nil,
			)

			lines, err := assembler.ExpandPseudos(
				[]string{"double t0, t1"}, registry,
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{"double t0, t1"}))
		})

		It("keeps a label attached to the first expanded line", func() {
			registry := NewMockPseudoRegistry(ctrl)
			rule := NewMockPseudoRule(ctrl)

			registry.EXPECT().Lookup("double").Return(rule, true)
			rule.EXPECT().Expand("double t0, t1", 0).Return(
				[]string{"add t0, t1, t1", "add t0, t0, t0"}, nil,
			)

			lines, err := assembler.ExpandPseudos(
				[]string{"start: double t0, t1"}, registry,
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(Equal([]string{
				"start: add t0, t1, t1",
				"add t0, t0, t0",
			}))
		})

		It("aborts on the first rule error", func() {
			registry := NewMockPseudoRegistry(ctrl)
			rule := NewMockPseudoRule(ctrl)

			registry.EXPECT().Lookup("add").Return(nil, false)
			registry.EXPECT().Lookup("double").Return(rule, true)
			rule.EXPECT().Expand("double t0, t1", 1).Return(
				nil, errors.New("bad rule"),
			)

			lines, err := assembler.ExpandPseudos([]string{
				"add x0, x0, x0",
				"double t0, t1",
			}, registry)

			Expect(err).To(MatchError("bad rule"))
			Expect(lines).To(BeNil())
		})

		It("rejects rules that expand to nothing", func() {
			registry := NewMockPseudoRegistry(ctrl)
			rule := NewMockPseudoRule(ctrl)

			registry.EXPECT().Lookup("vanish").Return(rule, true)
			rule.EXPECT().Expand("vanish t0", 0).Return(
				[]string{}, nil,
			)

			lines, err := assembler.ExpandPseudos(
				[]string{"vanish t0"}, registry,
			)

			Expect(err).To(
				BeAssignableToTypeOf(&assembler.EmptyExpansionError{}),
			)
			Expect(lines).To(BeNil())
		})
	})

	Describe("Program assembly", func() {
		It("assembles expanded pseudo-instructions end to end", func() {
			registry := NewMockPseudoRegistry(ctrl)
			rule := NewMockPseudoRule(ctrl)

			registry.EXPECT().Lookup("double").Return(rule, true)
			registry.EXPECT().Lookup("jal").Return(nil, false)
			rule.EXPECT().Expand("double t0, t1", 0).Return(
				[]string{"add t0, t1, t1"}, nil,
			)

			prog, err := assembler.AssembleRV32Source(
				strings.NewReader("start: double t0, t1\n\tjal x0, start"),
				registry,
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]string{
				"0000 0000 0110 0011 0000 0010 1011 0011",
				"1111 1111 1101 1111 1111 0000 0110 1111",
			}))
			Expect(prog.Labels.Addrs).To(
				HaveKeyWithValue("start", uint32(0x00400000)),
			)
		})

		It("fails fast on a bad instruction", func() {
			prog, err := assembler.AssembleRV32Source(
				strings.NewReader("mov t0, t1"), nil,
			)

			Expect(err).To(
				BeAssignableToTypeOf(&assembler.BadInstructionError{}),
			)
			Expect(prog).To(BeNil())
		})
	})
})
