// Package commitment decodes pool descriptors that authorities publish
// on chain. Each record is a tagged variant; only pool variants produce
// descriptors.
package commitment

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/pkg/safe"
)

// MaxSize is the largest commitment accepted.
const MaxSize = 128

const (
	tagMiner byte = 0x80

	protocolVersion uint32 = 0
)

var (
	ErrEmpty          = errors.New("empty commitment")
	ErrTooLarge       = errors.New("commitment too large")
	ErrUnknownVariant = errors.New("unknown commitment variant")
	ErrIrrelevant     = errors.New("commitment is not a pool descriptor")
	ErrMalformed      = errors.New("malformed commitment")
)

// Dropped reports whether err means the record should be skipped quietly.
func Dropped(err error) bool {
	return errors.Is(err, ErrUnknownVariant) || errors.Is(err, ErrIrrelevant)
}

// Decode parses a pool descriptor commitment.
func Decode(data []byte) (model.PoolDescriptor, error) {
	if len(data) == 0 {
		return model.PoolDescriptor{}, ErrEmpty
	}
	if len(data) > MaxSize {
		return model.PoolDescriptor{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	tag := data[0]
	switch model.PoolIndex(tag) {
	case model.PoolCustom, model.PoolBraiins, model.PoolProxy:
	default:
		if tag == tagMiner {
			return model.PoolDescriptor{}, ErrIrrelevant
		}
		return model.PoolDescriptor{}, fmt.Errorf("%w: tag 0x%02x", ErrUnknownVariant, tag)
	}

	r := bytes.NewReader(data[1:])
	d := model.PoolDescriptor{Index: model.PoolIndex(tag)}

	var err error
	if d.Host, err = readString(r); err != nil {
		return model.PoolDescriptor{}, malformed("host", err)
	}
	if d.Port, err = readPort(r); err != nil {
		return model.PoolDescriptor{}, malformed("port", err)
	}
	if d.HighDiffPort, err = readPort(r); err != nil {
		return model.PoolDescriptor{}, malformed("high diff port", err)
	}
	if d.Username, err = readString(r); err != nil {
		return model.PoolDescriptor{}, malformed("username", err)
	}
	if d.Password, err = readString(r); err != nil {
		return model.PoolDescriptor{}, malformed("password", err)
	}
	if r.Len() != 0 {
		return model.PoolDescriptor{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.Len())
	}
	if err = d.Validate(); err != nil {
		return model.PoolDescriptor{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}

// Encode serialises a descriptor in the layout Decode reads.
func Encode(d model.PoolDescriptor) ([]byte, error) {
	switch d.Index {
	case model.PoolCustom, model.PoolBraiins, model.PoolProxy:
	default:
		return nil, fmt.Errorf("%w: index %d", ErrUnknownVariant, d.Index)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(d.Index))
	if err := wire.WriteVarString(&buf, protocolVersion, d.Host); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, protocolVersion, uint64(d.Port)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, protocolVersion, uint64(d.HighDiffPort)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, protocolVersion, d.Username); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, protocolVersion, d.Password); err != nil {
		return nil, err
	}
	if buf.Len() > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, buf.Len())
	}
	return buf.Bytes(), nil
}

// readString reads a var-int prefixed string, checking the declared
// length against what is left before allocating.
func readString(r *bytes.Reader) (string, error) {
	n, err := wire.ReadVarInt(r, protocolVersion)
	if err != nil {
		return "", err
	}
	if n > uint64(r.Len()) {
		return "", fmt.Errorf("declared length %d exceeds %d remaining bytes", n, r.Len())
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readPort(r io.Reader) (uint16, error) {
	v, err := wire.ReadVarInt(r, protocolVersion)
	if err != nil {
		return 0, err
	}
	return safe.Uint16(v)
}

func malformed(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, field, err)
}
