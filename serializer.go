package main

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Save format versions. Bump currentSaveVersion when the layout changes and
// keep the old readers working.
//
//	1: first release
//	2: added per-item flags
//	3: stopped saving script overlay state, strings became UTF-8
//	4: stopped saving the palette
const (
	minSaveVersion     = 1
	currentSaveVersion = 4
)

// Serializer walks game state across a byte stream in a fixed field order.
// The same sync methods serve both directions so the save and load paths
// cannot drift apart. The first error sticks and turns every later call
// into a no-op.
type Serializer struct {
	r       io.Reader
	w       io.Writer
	version uint8
	err     error
}

func newSaver(w io.Writer) *Serializer {
	return &Serializer{w: w, version: currentSaveVersion}
}

func newLoader(r io.Reader, version uint8) *Serializer {
	return &Serializer{r: r, version: version}
}

func (s *Serializer) IsLoading() bool { return s.r != nil }
func (s *Serializer) Version() uint8  { return s.version }
func (s *Serializer) Err() error      { return s.err }

func (s *Serializer) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Serializer) syncRaw(buf []byte, what string) {
	if s.err != nil {
		return
	}
	var err error
	if s.IsLoading() {
		_, err = io.ReadFull(s.r, buf)
	} else {
		_, err = s.w.Write(buf)
	}
	if err != nil {
		s.fail(fmt.Errorf("sync %s: %w", what, err))
	}
}

func (s *Serializer) SyncByte(v *byte) {
	buf := []byte{*v}
	s.syncRaw(buf, "byte")
	if s.IsLoading() && s.err == nil {
		*v = buf[0]
	}
}

func (s *Serializer) SyncBool(v *bool) {
	b := byte(0)
	if *v {
		b = 1
	}
	s.SyncByte(&b)
	if s.IsLoading() && s.err == nil {
		*v = b != 0
	}
}

func (s *Serializer) SyncU16(v *uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], *v)
	s.syncRaw(buf[:], "u16")
	if s.IsLoading() && s.err == nil {
		*v = binary.LittleEndian.Uint16(buf[:])
	}
}

func (s *Serializer) SyncS16(v *int16) {
	u := uint16(*v)
	s.SyncU16(&u)
	if s.IsLoading() && s.err == nil {
		*v = int16(u)
	}
}

func (s *Serializer) SyncU32(v *uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], *v)
	s.syncRaw(buf[:], "u32")
	if s.IsLoading() && s.err == nil {
		*v = binary.LittleEndian.Uint32(buf[:])
	}
}

// SyncString writes a u16 length plus raw bytes. Saves before version 3 were
// produced by the DOS-era tooling and carry code page 437 bytes; anything
// newer is UTF-8.
func (s *Serializer) SyncString(v *string) {
	if s.IsLoading() {
		var n uint16
		s.SyncU16(&n)
		if s.err != nil {
			return
		}
		buf := make([]byte, n)
		s.syncRaw(buf, "string")
		if s.err != nil {
			return
		}
		if s.version < 3 {
			*v = decodeCP437(buf)
		} else {
			*v = string(buf)
		}
		return
	}
	b := []byte(*v)
	if s.version < 3 {
		b = encodeCP437(*v)
	}
	if len(b) > 0xffff {
		s.fail(fmt.Errorf("sync string: %d bytes exceeds length prefix", len(b)))
		return
	}
	n := uint16(len(b))
	s.SyncU16(&n)
	s.syncRaw(b, "string")
}

// SyncBytes carries an opaque blob with a u32 length prefix. Legacy sections
// that newer versions dropped still load through this and get discarded.
func (s *Serializer) SyncBytes(v *[]byte) {
	if s.IsLoading() {
		var n uint32
		s.SyncU32(&n)
		if s.err != nil {
			return
		}
		if n > 1<<20 {
			s.fail(fmt.Errorf("sync bytes: implausible length %d", n))
			return
		}
		buf := make([]byte, n)
		s.syncRaw(buf, "bytes")
		if s.err == nil {
			*v = buf
		}
		return
	}
	n := uint32(len(*v))
	s.SyncU32(&n)
	s.syncRaw(*v, "bytes")
}
