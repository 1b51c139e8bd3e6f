package swar

import (
	"testing"

	"github.com/nibblematch/levdex/pkg/codec"
)

func charHamming(a, b string) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

func TestHammingNibMatchesCharwise15(t *testing.T) {
	cases := []struct{ a, b string }{
		{"ABCDEFGHIJABCDE", "ABCDEFGHIJABCDE"},
		{"ABCDEFGHIJABCDE", "ABCJEFGHIJABCJE"},
		{"AAAAAAAAAAAAAAA", "JJJJJJJJJJJJJJJ"},
		{"ABCDEFGHIJABCDE", "ABCDEFGHIJABCDF"},
	}
	for _, c := range cases {
		got := HammingNib(codec.Encode([]byte(c.a)), codec.Encode([]byte(c.b)), Nibbles15)
		want := charHamming(c.a, c.b)
		if got != want {
			t.Errorf("HammingNib(%q,%q) = %d, want %d", c.a, c.b, got, want)
		}
	}
}

func TestHammingNibMatchesCharwise14(t *testing.T) {
	cases := []struct{ a, b string }{
		{"ABCDEFGHIJABCD", "ABCDEFGHIJABCD"},
		{"ABCDEFGHIJABCD", "ABCDEFGHIJABCE"},
		{"AAAAAAAAAAAAAA", "JJJJJJJJJJJJJJ"},
	}
	for _, c := range cases {
		got := HammingNib(pack14(c.a), pack14(c.b), Nibbles14)
		want := charHamming(c.a, c.b)
		if got != want {
			t.Errorf("HammingNib14(%q,%q) = %d, want %d", c.a, c.b, got, want)
		}
	}
}

func pack14(s string) uint64 {
	var code uint64
	for i := 0; i < 14; i++ {
		code |= uint64(s[i]-'A') & 0xF << (4 * i)
	}
	return code
}

func TestHammingNibZeroForIdentical(t *testing.T) {
	c := codec.Encode([]byte("ABCDEFGHIJABCDE"))
	if got := HammingNib(c, c, Nibbles15); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
