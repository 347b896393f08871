package ir

import "github.com/sarvex/hylo/pkg/typesys"

// BlockID is `(function_id, block_address)` (spec.md §9): the block's own
// pointer identity serves as its stable address, since every Block is
// allocated once via AppendBlock and never copied or relocated.
type BlockID struct {
	Func FunctionID
	Addr *Block
}

// InstructionID is `(block_id, instruction_address)` (spec.md §9): the
// address is the node holding the instruction inside its block's list,
// which keeps its identity across insertions and removals elsewhere in the
// same block.
type InstructionID struct {
	Block BlockID
	Addr  *node[Instruction]
}

// Block is one basic block: a list of input types and an ordered,
// stable-address list of instructions (spec.md §3 "Block: (inputs, ordered
// list of instructions)").
type Block struct {
	fn     *Function
	self   *node[*Block]
	Inputs []typesys.Type

	instrs list[Instruction]
}

// ID returns the block's stable identity.
func (b *Block) ID() BlockID { return BlockID{Func: b.fn.ID(), Addr: b} }

// Append adds instr to the end of b and returns its stable id.
func (b *Block) Append(instr Instruction) InstructionID {
	n := b.instrs.pushBack(instr)
	return InstructionID{Block: b.ID(), Addr: n}
}

// Remove detaches the instruction at id from its block.
func (b *Block) Remove(id InstructionID) { b.instrs.remove(id.Addr) }

// Replace overwrites the instruction at id in place, preserving its address
// (spec.md §4.E "Replacing an instruction preserves its address").
func (b *Block) Replace(id InstructionID, instr Instruction) { id.Addr.value = instr }

// Instructions returns b's instructions in order.
func (b *Block) Instructions() []Instruction { return b.instrs.values() }

// Entry pairs an instruction with the id it was appended under.
type Entry struct {
	ID    InstructionID
	Instr Instruction
}

// Entries returns b's instructions paired with their stable ids, in order.
// pkg/mono uses this to rebuild a one-to-one mapping from source to target
// instructions while walking a block it is rewriting.
func (b *Block) Entries() []Entry {
	id := b.ID()
	out := make([]Entry, 0, b.instrs.size)
	for n := b.instrs.head; n != nil; n = n.next {
		out = append(out, Entry{ID: InstructionID{Block: id, Addr: n}, Instr: n.value})
	}
	return out
}

// Terminator returns b's last instruction, or nil if b is empty. A
// well-formed block's terminator is always one of Branch/CondBranch/
// Switch/Return/Unreachable (spec.md §3 invariant).
func (b *Block) Terminator() Instruction {
	n := b.instrs.last()
	if n == nil {
		return nil
	}
	return n.value
}
