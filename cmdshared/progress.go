package cmdshared

import (
	"os"

	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// Progress is a single counting progress bar on stderr
type Progress struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	total int64
	count int64
}

// NewProgress starts a bar counting up to total. A zero total draws nothing.
func NewProgress(name string, total int) *Progress {
	if total <= 0 {
		return &Progress{}
	}
	p := mpb.New(mpb.WithOutput(os.Stderr), mpb.WithWidth(40))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return &Progress{p: p, bar: bar, total: int64(total)}
}

// Increment advances the bar by one. It is not safe for concurrent use.
func (pr *Progress) Increment() {
	if pr.bar != nil {
		pr.count++
		pr.bar.Increment()
	}
}

// Done completes the bar, even if fewer increments arrived than expected, and waits
// for it to finish rendering
func (pr *Progress) Done() {
	if pr.p == nil {
		return
	}
	if pr.count < pr.total {
		pr.bar.SetTotal(pr.count, true)
	}
	pr.p.Wait()
}
