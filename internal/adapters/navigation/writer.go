package navigation

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/poolify-cli/internal/ports"
)

var hints = map[ports.DestinationName]string{
	ports.DestinationLogin:        "run `poolify login` to start a session",
	ports.DestinationPoolCreation: "run `poolify pool create` to start a pool",
	ports.DestinationPoolDetail:   "run `poolify pool view` to see the pool",
	ports.DestinationHome:         "run `poolify dashboard` to see active pools",
}

// Writer prints each navigation request with a hint for the matching command.
type Writer struct {
	out  io.Writer
	mu   sync.Mutex
	last []ports.Destination
}

var _ ports.Navigator = (*Writer)(nil)

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Navigate(ctx context.Context, dest ports.Destination) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = append(w.last, dest)
	if w.out == nil {
		return nil
	}

	_, err := fmt.Fprintln(w.out, Describe(dest))
	return err
}

// Describe formats dest the way Writer prints it.
func Describe(dest ports.Destination) string {
	line := fmt.Sprintf("-> %s", dest)
	if hint, ok := hints[dest.Name]; ok {
		line += " (" + hint + ")"
	}
	return line
}

func (w *Writer) History() []ports.Destination {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]ports.Destination(nil), w.last...)
}
