// SPDX-License-Identifier: GPL-3.0-or-later
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"

	"github.com/CrawX/go-imap-migrate/domain"
)

const redrawInterval = 100 * time.Millisecond

// Bar draws a single line progress bar, redrawing it in place.
type Bar struct {
	w   io.Writer
	bar progress.Model

	total, done int
	started     time.Time
	lastDraw    time.Time
	interval    time.Duration
	now         func() time.Time
}

func NewBar(w io.Writer) *Bar {
	return &Bar{
		w:        w,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		interval: redrawInterval,
		now:      time.Now,
	}
}

// ForTerminal returns a bar on stderr, or a silent indicator when stderr is
// not a terminal.
func ForTerminal() domain.Progress {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return Noop{}
	}
	return NewBar(os.Stderr)
}

func (b *Bar) Start(total, done int) {
	b.total = total
	b.done = done
	b.started = b.now()
	b.draw(true)
}

func (b *Bar) Increment() {
	b.done++
	b.draw(b.done == b.total)
}

func (b *Bar) Finish() {
	b.draw(true)
	fmt.Fprintln(b.w)
}

func (b *Bar) draw(force bool) {
	now := b.now()
	if !force && now.Sub(b.lastDraw) < b.interval {
		return
	}
	b.lastDraw = now

	percent := 1.0
	if b.total > 0 {
		percent = float64(b.done) / float64(b.total)
	}

	elapsed := now.Sub(b.started).Round(time.Second)
	fmt.Fprintf(b.w, "\r%s %d/%d emails %s", b.bar.ViewAs(percent), b.done, b.total, elapsed)
}

type Noop struct{}

func (Noop) Start(total, done int) {}

func (Noop) Increment() {}

func (Noop) Finish() {}
