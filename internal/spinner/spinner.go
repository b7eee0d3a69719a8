package spinner

import (
	"fmt"
	"io"
	"time"

	"github.com/eduardofuncao/sqlhelp/internal/styles"
)

const frameDelay = 100 * time.Millisecond

// CircleWait draws a pulsing indicator with label on w until done is closed,
// then clears the line.
func CircleWait(w io.Writer, label string, done <-chan struct{}) {
	stages := []string{" ", ".", "o", "O", "@", "*"}
	ticker := time.NewTicker(frameDelay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(w, "\r%s %s", styles.Success.Render(stages[i%len(stages)]), label)
		select {
		case <-done:
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Run calls fn while a spinner with label is drawn on w.
func Run(w io.Writer, label string, fn func() error) error {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		CircleWait(w, label, done)
		close(finished)
	}()

	err := fn()
	close(done)
	<-finished
	return err
}
