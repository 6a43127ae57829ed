//go:build unix

package sys

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

func TestIsATTY(t *testing.T) {
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skip("pty.Open:", err)
	}
	defer ptm.Close()
	defer tty.Close()

	if !IsATTY(tty) {
		t.Errorf("IsATTY(pty) = false, want true")
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	if IsATTY(r) {
		t.Errorf("IsATTY(pipe) = true, want false")
	}
}
