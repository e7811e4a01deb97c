package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"chartviz/cli/internal/charts"
	"chartviz/cli/internal/terminal"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The spinner runs in a separate goroutine and
// can be stopped by calling the returned function, which clears the line and
// waits for the goroutine to exit.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var once sync.Once
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// withSpinner runs fn while a spinner is shown on stdout. Without a terminal fn
// just runs.
func withSpinner(text string, fn func() error) error {
	if !terminal.IsInteractive(os.Stdout) {
		return fn()
	}
	cursor.Hide()
	defer cursor.Show()
	stop := startInlineSpinner(os.Stdout, text, spinnerFrames, 100*time.Millisecond)
	err := fn()
	stop()
	return err
}

// printNotices prints and then clears the configurator's notices.
func printNotices(c *charts.Configurator) {
	shown := c.Notices()
	for _, n := range shown {
		switch n.Level {
		case charts.LevelError:
			pterm.Error.Println(n.Text)
		case charts.LevelWarning:
			pterm.Warning.Println(n.Text)
		default:
			pterm.Info.Println(n.Text)
		}
	}
	// Dismiss from the back so earlier indices stay valid.
	for i := len(shown) - 1; i >= 0; i-- {
		c.Dismiss(i)
	}
}

func notLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'chartviz login' to get started.")
}
