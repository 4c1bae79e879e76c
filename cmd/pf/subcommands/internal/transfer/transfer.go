// Package transfer renders progress of uploads and downloads.
package transfer

import (
	"errors"
	"io"
	"log"
	"time"

	pb "github.com/cheggaaa/pb/v3"

	"github.com/periflow/cli/cmd/pf/rest"
)

// Watch draws a progress bar on out until prog finishes,
// and returns what the transfer has produced.
func Watch[T any](l *log.Logger, out io.Writer, prog rest.Progress[T]) (T, error) {
	bar := pb.New64(prog.EstimatedTotalSize())
	bar.Set(pb.Bytes, true)
	bar.SetWriter(out)
	if err := bar.Err(); err != nil {
		return *new(T), err
	}

	bar.Start()
	for {
		select {
		case <-time.NewTimer(1 * time.Second).C:
			bar.SetTotal(prog.EstimatedTotalSize())
			bar.SetCurrent(prog.ProgressedSize())
			bar.Set("prefix", ellipsis(prog.ProgressingFile(), 60)+":")
			continue
		case <-prog.Sent():
			bar.SetTotal(prog.EstimatedTotalSize())
			bar.SetCurrent(prog.ProgressedSize())
			bar.Set("prefix", "")
		}
		break
	}
	bar.Finish()

	select {
	case <-time.NewTimer(1 * time.Second).C:
		l.Println("waiting server...")
		<-prog.Done()
	case <-prog.Done():
	}

	if err := prog.Error(); err != nil {
		return *new(T), err
	}
	result, ok := prog.Result()
	if !ok {
		return *new(T), errors.New("transfer finished without result")
	}
	return result, nil
}

func ellipsis(s string, length int) string {
	if len(s) <= length {
		return s
	}
	l := len(s)
	return "[...]" + s[l-length+5:]
}
