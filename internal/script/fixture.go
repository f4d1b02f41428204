package script

// Fixture is an in-memory Disassembler builder. It lets tests and the demo
// CLI assemble a decompiled instruction stream directly, without a real
// byte-level decoder, by appending items and auto-assigning sequential local
// offsets as it goes.
type Fixture struct {
	items []Item
	index map[int32]int
}

// NewFixture returns an empty, ready-to-append Fixture.
func NewFixture() *Fixture {
	return &Fixture{index: map[int32]int{}}
}

func (f *Fixture) nextOffset() int32 {
	return int32(len(f.items))
}

func (f *Fixture) append(it Item) *Fixture {
	it.Offset = f.nextOffset()
	f.index[it.Offset] = len(f.items)
	f.items = append(f.items, it)
	return f
}

// Label appends a label definition at the next offset, returning that offset
// so callers can wire it into a later branch/call/spawn argument.
func (f *Fixture) Label() int32 {
	off := f.nextOffset()
	f.append(Item{Kind: LabelDef})
	return off
}

// Cmd appends a command item.
func (f *Fixture) Cmd(id uint16, args ...Arg) *Fixture {
	return f.append(Item{Kind: CommandItem, Command: Command{ID: id, Args: args}})
}

// CmdNot appends a command item with the NOT flag set (negated conditional).
func (f *Fixture) CmdNot(id uint16, args ...Arg) *Fixture {
	return f.append(Item{Kind: CommandItem, Command: Command{ID: id, Not: true, Args: args}})
}

// Hex appends raw, un-decoded bytes.
func (f *Fixture) Hex(b []byte) *Fixture {
	return f.append(Item{Kind: HexItem, Hex: b})
}

// Data implements Disassembler.
func (f *Fixture) Data() []Item { return f.items }

// DataIndex implements Disassembler.
func (f *Fixture) DataIndex(localOffset int32) (int, bool) {
	idx, ok := f.index[localOffset]
	return idx, ok
}
