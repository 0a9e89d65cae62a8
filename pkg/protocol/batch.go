package protocol

import (
	"errors"
	"fmt"

	"github.com/velodom/velo/pkg/vdom"
)

// ErrUnknownOp is returned when a batch contains an op kind this version
// does not understand.
var ErrUnknownOp = errors.New("protocol: unknown op kind")

// Batch is a sequenced group of ops produced by one traversal.
type Batch struct {
	Seq uint64
	Ops []vdom.Op
}

// EncodeBatch encodes a batch to bytes.
func EncodeBatch(b *Batch) ([]byte, error) {
	e := NewEncoder()
	if err := EncodeBatchTo(e, b); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeBatchTo encodes a batch using the provided encoder.
func EncodeBatchTo(e *Encoder, b *Batch) error {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Ops)))
	for i := range b.Ops {
		if err := encodeOp(e, &b.Ops[i]); err != nil {
			return err
		}
	}
	return nil
}

// encodeOp encodes one op record. Every record starts with the kind byte
// and the target ref; the tail depends on the kind.
func encodeOp(e *Encoder, op *vdom.Op) error {
	e.WriteByte(byte(op.Kind))
	e.WriteUvarint(uint64(op.Ref))

	switch op.Kind {
	case vdom.OpCreateElement, vdom.OpCreateText,
		vdom.OpSetText, vdom.OpSetClass:
		e.WriteString(op.Value)

	case vdom.OpSetStyle, vdom.OpSetAttr:
		e.WriteString(op.Key)
		e.WriteString(op.Value)

	case vdom.OpRemoveStyle, vdom.OpRemoveAttr:
		e.WriteString(op.Key)

	case vdom.OpInsert:
		e.WriteUvarint(uint64(op.Parent))
		e.WriteUvarint(uint64(op.Anchor))

	case vdom.OpRemove:
		// Ref only.

	case vdom.OpAttachEvents:
		e.WriteUvarint(uint64(len(op.Events)))
		for _, ev := range op.Events {
			e.WriteString(ev)
		}

	case vdom.OpHook:
		e.WriteByte(byte(op.Hook))

	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnknownOp, byte(op.Kind))
	}
	return nil
}

// DecodeBatch decodes a batch from bytes.
func DecodeBatch(data []byte) (*Batch, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("decode batch seq: %w", err)
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, fmt.Errorf("decode batch count: %w", err)
	}

	b := &Batch{Seq: seq, Ops: make([]vdom.Op, count)}
	for i := 0; i < count; i++ {
		if err := decodeOp(d, &b.Ops[i]); err != nil {
			return nil, fmt.Errorf("decode op %d: %w", i, err)
		}
	}
	return b, nil
}

func decodeOp(d *Decoder, op *vdom.Op) error {
	kind, err := d.ReadByte()
	if err != nil {
		return err
	}
	op.Kind = vdom.OpKind(kind)

	ref, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	op.Ref = vdom.RefID(ref)

	switch op.Kind {
	case vdom.OpCreateElement, vdom.OpCreateText,
		vdom.OpSetText, vdom.OpSetClass:
		op.Value, err = d.ReadString()

	case vdom.OpSetStyle, vdom.OpSetAttr:
		if op.Key, err = d.ReadString(); err != nil {
			return err
		}
		op.Value, err = d.ReadString()

	case vdom.OpRemoveStyle, vdom.OpRemoveAttr:
		op.Key, err = d.ReadString()

	case vdom.OpInsert:
		var parent, anchor uint64
		if parent, err = d.ReadUvarint(); err != nil {
			return err
		}
		if anchor, err = d.ReadUvarint(); err != nil {
			return err
		}
		op.Parent = vdom.RefID(parent)
		op.Anchor = vdom.RefID(anchor)

	case vdom.OpRemove:
		// Ref only.

	case vdom.OpAttachEvents:
		var n int
		if n, err = d.ReadCount(); err != nil {
			return err
		}
		op.Events = make([]string, n)
		for i := 0; i < n; i++ {
			if op.Events[i], err = d.ReadString(); err != nil {
				return err
			}
		}

	case vdom.OpHook:
		var hk byte
		if hk, err = d.ReadByte(); err != nil {
			return err
		}
		op.Hook = vdom.HookKind(hk)

	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnknownOp, kind)
	}
	return err
}
