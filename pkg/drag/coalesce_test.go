package drag

import "testing"

func TestCoalescer(t *testing.T) {
	var got []int
	c := NewCoalescer(func(v int) { got = append(got, v) })

	if c.Tick() {
		t.Error("Tick on an empty coalescer should not run")
	}
	c.Push(1)
	c.Push(2)
	c.Push(3)
	if !c.Pending() {
		t.Fatal("Pending() = false after Push")
	}
	c.Tick()
	c.Tick()
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("ran %v, want [3]", got)
	}

	c.Push(4)
	c.Cancel()
	if c.Flush() {
		t.Error("Flush after Cancel should not run")
	}

	c.Push(5)
	if !c.Flush() || got[len(got)-1] != 5 {
		t.Errorf("Flush did not run the pending value: %v", got)
	}
}
