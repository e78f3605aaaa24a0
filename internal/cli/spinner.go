package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// withSpinner animates msg on w while fn runs and clears the line afterwards.
// The animation also stops when ctx is cancelled; fn is expected to observe
// the same context. fn's error is returned unchanged.
func withSpinner(ctx context.Context, w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		t := time.NewTicker(spinnerInterval)
		defer t.Stop()
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-t.C:
				fmt.Fprintf(w, "\r%s %s", StyleHighlight.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(msg))
			}
		}
	}()

	err := fn()
	close(done)
	<-stopped
	fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(msg)+4))
	return err
}
