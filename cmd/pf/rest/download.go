package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	cerr "github.com/periflow/cli/cmd/pf/errors"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
)

const (
	// DownloadChunkSize is the range size of one download request.
	DownloadChunkSize = int64(4) << 20 // 4 MiB

	// parallelDownloadThreshold decides when a file is worth
	// fetching in ranged chunks concurrently.
	parallelDownloadThreshold = int64(16) << 20 // 16 MiB
)

func (c *client) DownloadFiles(ctx context.Context, files []apickpt.File, dest string) Progress[struct{}] {
	prog := newProgress[struct{}]()

	for _, f := range files {
		prog.totalSize += f.Size
	}

	go func() {
		defer close(prog.done)
		defer close(prog.sent)

		for _, f := range files {
			if f.DownloadURL == "" {
				prog.fail(cerr.NewCuiError(fmt.Sprintf(
					"no download URL is issued for %s", f.Path,
				)))
				return
			}

			target := filepath.Join(dest, filepath.FromSlash(f.Path))
			if err := os.MkdirAll(filepath.Dir(target), os.FileMode(0755)); err != nil {
				prog.fail(err)
				return
			}

			prog.setProgressingFile(f.Path)

			var err error
			if f.Size < parallelDownloadThreshold {
				err = c.downloadWhole(ctx, f, target, prog.progressed)
			} else {
				err = c.downloadChunked(ctx, f, target, prog.progressed)
			}
			if err != nil {
				os.Remove(target)
				prog.fail(err)
				return
			}
		}

		prog.result = &struct{}{}
	}()

	return prog
}

func (c *client) downloadWhole(ctx context.Context, f apickpt.File, target string, progressed func(int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.DownloadURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := unmarshalStreamResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("storage rejected the download of %s", f.Path),
		Status5xx: fmt.Sprintf("storage error at downloading %s", f.Path),
	})
	if err != nil {
		return err
	}
	defer body.Close()

	fp, err := os.Create(target)
	if err != nil {
		return err
	}
	defer fp.Close()

	n, err := io.Copy(fp, body)
	progressed(n)
	if err != nil {
		return err
	}
	if n != f.Size {
		return cerr.NewCuiError(fmt.Sprintf(
			"downloaded %s is %d bytes, expected %d", f.Path, n, f.Size,
		))
	}
	return nil
}

// errRangeIgnored marks a storage replying 200 to a ranged request.
var errRangeIgnored = errors.New("storage ignored the range request")

// downloadChunked fetches a file in ranged requests, writing each
// chunk at its own offset so chunks can land in any order.
//
// A storage replying 200 sends the whole object regardless of Range,
// so the file is re-fetched in one request instead.
func (c *client) downloadChunked(ctx context.Context, f apickpt.File, target string, progressed func(int64)) error {
	fp, err := os.Create(target)
	if err != nil {
		return err
	}
	defer fp.Close()

	if err := fp.Truncate(f.Size); err != nil {
		return err
	}

	counted := atomic.Int64{}

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(uploadConcurrency())

	for offset := int64(0); offset < f.Size; offset += DownloadChunkSize {
		offset := offset
		end := offset + DownloadChunkSize - 1
		if end >= f.Size {
			end = f.Size - 1
		}

		grp.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, http.MethodGet, f.DownloadURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, end))

			resp, err := c.httpclient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusPartialContent:
				// the chunk we asked for
			case StatusCodeRangeOf(resp) <= Status2xx:
				return errRangeIgnored
			default:
				return errorFromResponse(resp, StatusCodeRangeOf(resp), MessageFor{
					Status4xx: fmt.Sprintf("storage rejected a chunk of %s", f.Path),
					Status5xx: fmt.Sprintf("storage error at a chunk of %s", f.Path),
				})
			}

			buf, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if want := end - offset + 1; int64(len(buf)) != want {
				return cerr.NewCuiError(fmt.Sprintf(
					"storage sent %d bytes for a %d byte chunk of %s",
					len(buf), want, f.Path,
				))
			}
			if _, err := fp.WriteAt(buf, offset); err != nil {
				return err
			}
			counted.Add(int64(len(buf)))
			progressed(int64(len(buf)))
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		if errors.Is(err, errRangeIgnored) {
			fp.Close()
			progressed(-counted.Load())
			return c.downloadWhole(ctx, f, target, progressed)
		}
		return err
	}

	st, err := fp.Stat()
	if err != nil {
		return err
	}
	if st.Size() != f.Size {
		return cerr.NewCuiError(fmt.Sprintf(
			"downloaded %s is %d bytes, expected %d", f.Path, st.Size(), f.Size,
		))
	}
	return nil
}
