package kfmt

import "testing"

func TestRingBufferWriteRead(t *testing.T) {
	var rb ringBuffer
	rb.Write([]byte("hello"))

	out := make([]byte, 5)
	n, _ := rb.Read(out)
	if n != 5 || string(out) != "hello" {
		t.Fatalf("expected to read back 'hello'; got %q (n=%d)", out[:n], n)
	}

	if n, _ := rb.Read(out); n != 0 {
		t.Fatalf("expected empty buffer to read 0 bytes; got %d", n)
	}
}

func TestRingBufferWrapsWhenFull(t *testing.T) {
	var rb ringBuffer
	big := make([]byte, len(rb.buf)+10)
	for i := range big {
		big[i] = byte(i)
	}
	rb.Write(big)

	if rb.len != len(rb.buf) {
		t.Fatalf("expected ring buffer to saturate at %d bytes; got %d", len(rb.buf), rb.len)
	}

	out := make([]byte, rb.len)
	rb.Read(out)
	if out[0] != big[10] {
		t.Fatalf("expected oldest surviving byte to be %d; got %d", big[10], out[0])
	}
}
