package vdom

import "fmt"

// OpKind is the type of a recorded mutation operation.
type OpKind uint8

const (
	OpCreateElement OpKind = 0x01
	OpCreateText    OpKind = 0x02
	OpSetText       OpKind = 0x03
	OpSetClass      OpKind = 0x04
	OpSetStyle      OpKind = 0x05
	OpRemoveStyle   OpKind = 0x06
	OpSetAttr       OpKind = 0x07
	OpRemoveAttr    OpKind = 0x08
	OpInsert        OpKind = 0x09
	OpRemove        OpKind = 0x0A
	OpAttachEvents  OpKind = 0x0B
	OpHook          OpKind = 0x0C
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetText:
		return "SetText"
	case OpSetClass:
		return "SetClass"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpAttachEvents:
		return "AttachEvents"
	case OpHook:
		return "Hook"
	default:
		return "Unknown"
	}
}

// RefID is the Recorder's handle type: a dense id per created node. Zero
// means "no ref" (nil anchor, no parent).
type RefID uint32

// Op is one recorded mutation operation, suitable for wire encoding.
type Op struct {
	Kind   OpKind
	Ref    RefID
	Parent RefID
	Anchor RefID
	Key    string
	Value  string
	Hook   HookKind
	Events []string
}

// Recorder is a Renderer that records the op stream instead of mutating a
// real target. Tests assert over it; the stream and replay layers encode
// it for the wire.
type Recorder struct {
	nextID  RefID
	ops     []Op
	targets map[string]RefID
}

// NewRecorder creates a Recorder. Root() is pre-allocated as id 1.
func NewRecorder() *Recorder {
	return &Recorder{nextID: 1, targets: make(map[string]RefID)}
}

// Root returns the container handle new trees mount into.
func (rec *Recorder) Root() Ref {
	return RefID(1)
}

// Ops returns the recorded op stream.
func (rec *Recorder) Ops() []Op {
	return rec.ops
}

// Reset drops recorded ops but keeps id allocation and targets, so a
// subsequent traversal continues against the same virtual target.
func (rec *Recorder) Reset() {
	rec.ops = rec.ops[:0]
}

// RegisterTarget allocates a container for a teleport selector.
func (rec *Recorder) RegisterTarget(selector string) Ref {
	rec.nextID++
	rec.targets[selector] = rec.nextID
	return rec.nextID
}

// Count returns how many recorded ops have the given kind.
func (rec *Recorder) Count(kind OpKind) int {
	count := 0
	for _, op := range rec.ops {
		if op.Kind == kind {
			count++
		}
	}
	return count
}

func (rec *Recorder) append(op Op) {
	rec.ops = append(rec.ops, op)
}

func refOf(r Ref) RefID {
	if r == nil {
		return 0
	}
	if id, ok := r.(RefID); ok {
		return id
	}
	return 0
}

// CreateElement implements Renderer.
func (rec *Recorder) CreateElement(tag string) Ref {
	rec.nextID++
	rec.append(Op{Kind: OpCreateElement, Ref: rec.nextID, Value: tag})
	return rec.nextID
}

// CreateText implements Renderer.
func (rec *Recorder) CreateText(text string) Ref {
	rec.nextID++
	rec.append(Op{Kind: OpCreateText, Ref: rec.nextID, Value: text})
	return rec.nextID
}

// SetText implements Renderer.
func (rec *Recorder) SetText(ref Ref, text string) {
	rec.append(Op{Kind: OpSetText, Ref: refOf(ref), Value: text})
}

// SetClass implements Renderer.
func (rec *Recorder) SetClass(ref Ref, class string) {
	rec.append(Op{Kind: OpSetClass, Ref: refOf(ref), Value: class})
}

// SetStyle implements Renderer.
func (rec *Recorder) SetStyle(ref Ref, key, value string) {
	rec.append(Op{Kind: OpSetStyle, Ref: refOf(ref), Key: key, Value: value})
}

// RemoveStyle implements Renderer.
func (rec *Recorder) RemoveStyle(ref Ref, key string) {
	rec.append(Op{Kind: OpRemoveStyle, Ref: refOf(ref), Key: key})
}

// SetAttr implements Renderer.
func (rec *Recorder) SetAttr(ref Ref, key, value string) {
	rec.append(Op{Kind: OpSetAttr, Ref: refOf(ref), Key: key, Value: value})
}

// RemoveAttr implements Renderer.
func (rec *Recorder) RemoveAttr(ref Ref, key string) {
	rec.append(Op{Kind: OpRemoveAttr, Ref: refOf(ref), Key: key})
}

// Insert implements Renderer.
func (rec *Recorder) Insert(ref, parent, anchor Ref) {
	rec.append(Op{Kind: OpInsert, Ref: refOf(ref), Parent: refOf(parent), Anchor: refOf(anchor)})
}

// Remove implements Renderer.
func (rec *Recorder) Remove(ref Ref) {
	rec.append(Op{Kind: OpRemove, Ref: refOf(ref)})
}

// AttachEvents implements Renderer.
func (rec *Recorder) AttachEvents(ref Ref, events []string) {
	rec.append(Op{Kind: OpAttachEvents, Ref: refOf(ref), Events: events})
}

// ResolveTarget implements Renderer. Selectors must be registered first.
func (rec *Recorder) ResolveTarget(selector string) (Ref, error) {
	if id, ok := rec.targets[selector]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("recorder: unknown target %q", selector)
}

// InvokeHook implements Renderer.
func (rec *Recorder) InvokeHook(node *VNode, hook HookKind) {
	rec.append(Op{Kind: OpHook, Ref: refOf(node.Ref), Hook: hook})
}
