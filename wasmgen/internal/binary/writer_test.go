package binary

import (
	"bytes"
	"testing"
)

func TestWriterBasic(t *testing.T) {
	w := NewWriter()
	w.Byte(0x01)
	w.WriteBytes([]byte{0x02, 0x03})

	if w.Len() != 3 {
		t.Errorf("Len: got %d, want 3", w.Len())
	}
	if !bytes.Equal(w.Bytes(), []byte{0x01, 0x02, 0x03}) {
		t.Errorf("Bytes: got %v", w.Bytes())
	}
}

func TestWriterWriteU32(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.WriteU32(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteU32(%d): got %x, want %x", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestWriterWriteS64(t *testing.T) {
	tests := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-1, []byte{0x7f}},
		{-64, []byte{0x40}},
		{-65, []byte{0xbf, 0x7f}},
		{0x70, []byte{0xf0, 0x00}},
		{-9223372036854775808, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.WriteS64(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteS64(%d): got %x, want %x", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestWriterWriteName(t *testing.T) {
	w := NewWriter()
	w.WriteName("R.x")
	if !bytes.Equal(w.Bytes(), []byte{0x03, 'R', '.', 'x'}) {
		t.Errorf("WriteName: got %v", w.Bytes())
	}
}

func TestWriterWriteU32LE(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0x6D736100)
	if !bytes.Equal(w.Bytes(), []byte{0x00, 0x61, 0x73, 0x6D}) {
		t.Errorf("WriteU32LE: got %x", w.Bytes())
	}
}

func TestWriterSection(t *testing.T) {
	body := NewWriter()
	body.WriteBytes(make([]byte, 130))

	w := NewWriter()
	w.Section(7, body)
	got := w.Bytes()
	if got[0] != 7 || got[1] != 0x82 || got[2] != 0x01 {
		t.Errorf("Section header: got %x", got[:3])
	}
	if len(got) != 133 {
		t.Errorf("Section length: got %d, want 133", len(got))
	}
}
