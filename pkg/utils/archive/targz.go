package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type Progress interface {
	// EstimatedTotalSize returns the total size of files to be archived.
	//
	// This is estimated and not compressed size.
	EstimatedTotalSize() int64

	// ProgressedSize returns the size of archived files.
	//
	// This size is updated during archiving.
	//
	// This is raw (not compressed) size.
	ProgressedSize() int64

	// WrittenSize returns the compressed size written to the destination so far.
	WrittenSize() int64

	// ProgressingFile returns the file name which is currently being archived.
	ProgressingFile() string

	// Error returns error caused during archiving.
	Error() error

	// Done returns a channel which is closed when archiving is done.
	Done() <-chan struct{}

	// EstimateDone returns a channel which is closed when EstimatedTotalSize is calcurated.
	EstimateDone() <-chan struct{}
}

type progress struct {
	totalSize   int64
	doneSize    int64
	writtenSize int64
	file        string
	err         error
	done        chan struct{}
	estDone     chan struct{}
}

func (m *progress) EstimatedTotalSize() int64 {
	return m.totalSize
}

func (m *progress) ProgressedSize() int64 {
	return m.doneSize
}

func (m *progress) WrittenSize() int64 {
	return m.writtenSize
}

func (m *progress) ProgressingFile() string {
	return m.file
}

func (m *progress) Error() error {
	return m.err
}

func (m *progress) Done() <-chan struct{} {
	return m.done
}

func (m *progress) EstimateDone() <-chan struct{} {
	return m.estDone
}

// ErrArchiveTooLarge is returned when the compressed archive exceeds
// the limit given by MaxArchiveSize.
var ErrArchiveTooLarge = errors.New("archive size exceeds limit")

var ErrLoopSymlink = errors.New("symlink loop detected")

type tarOption struct {
	followSymlinks bool
	maxSize        int64
}

type TarOption func(*tarOption) *tarOption

func FollowSymlinks() TarOption {
	return func(o *tarOption) *tarOption {
		o.followSymlinks = true
		return o
	}
}

// MaxArchiveSize limits the compressed size of the generated archive.
//
// When the limit is exceeded, archiving stops with ErrArchiveTooLarge.
func MaxArchiveSize(limit int64) TarOption {
	return func(o *tarOption) *tarOption {
		o.maxSize = limit
		return o
	}
}

// GoTarGz archives files under root into dest as gzipped tar, in background goroutine.
//
// # Args
//
// - ctx context.Context: context to be used for archiving.
//
// - root string: root directory where it collects files from.
//
// - dest io.Writer: where tar.gz stream is to be written.
//
// # Returns
//
// - Progress: monitor object to watch the progress of archiving.
func GoTarGz(ctx context.Context, root string, dest io.Writer, options ...TarOption) Progress {

	opt := &tarOption{}
	for _, o := range options {
		opt = o(opt)
	}

	started := false
	prog := &progress{
		done:    make(chan struct{}),
		estDone: make(chan struct{}),
	}

	defer func() {
		if !started {
			close(prog.estDone)
			close(prog.done)
		}
	}()
	absroot, err := filepath.Abs(root)
	if err != nil {
		prog.err = err
		return prog
	}

	if _, err := os.Stat(absroot); err != nil {
		prog.err = err
		return prog
	}

	go func() {
		// estimate size

		defer close(prog.estDone)
		if err := findFiles(absroot, opt.followSymlinks, func(_ string, info fs.FileInfo) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if prog.err != nil {
				return prog.err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			prog.totalSize += info.Size()
			return nil

		}); err != nil {
			prog.err = err
			return
		}
	}()

	started = true
	go func() {
		defer close(prog.done)
		defer func() {
			switch pan := recover().(type) {
			case nil:
				// ok
			case error:
				prog.err = pan
			case string:
				prog.err = fmt.Errorf("%s", pan)
			default:
				prog.err = fmt.Errorf("%v", pan)
			}
		}()

		counter := &countingWriter{dest: dest, prog: prog, limit: opt.maxSize}
		gzWriter := gzip.NewWriter(counter)
		tarWriter := tar.NewWriter(gzWriter)
		writer := &reportingWriter{dest: tarWriter, prog: prog}
		var err error
		defer func() {
			if err == nil && recover() == nil {
				tarWriter.Close()
				gzWriter.Close()
			}
		}()

		prog.err = findFiles(
			absroot, opt.followSymlinks,
			func(fullpath string, fi fs.FileInfo) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if prog.err != nil {
					return prog.err
				}

				relpath, err := filepath.Rel(absroot, fullpath)
				if err != nil {
					return err
				}
				prog.file = relpath

				linkname := ""
				if fi.Mode()&os.ModeSymlink != 0 {
					ln, err := os.Readlink(fullpath)
					if err != nil {
						return err
					}
					linkname = ln
				}

				hdr, err := tar.FileInfoHeader(fi, linkname)
				if err != nil {
					return err
				}
				hdr.Name = relpath

				if err := tarWriter.WriteHeader(hdr); err != nil {
					return err
				}

				if fi.Mode().IsRegular() {
					fp, err := ctxOpen(ctx, fullpath)
					if err != nil {
						return err
					}
					defer fp.Close()
					if _, err := io.Copy(writer, fp); err != nil {
						return err
					}
				}

				return nil
			},
		)
	}()

	return prog
}

func findFiles(from string, followLink bool, callback func(string, fs.FileInfo) error) error {
	stat, err := os.Lstat(from)
	if err != nil {
		return err
	}

	via := map[string]struct{}{}
	if stat.Mode()&os.ModeSymlink != 0 && followLink {
		s, err := os.Stat(from)
		if err != nil {
			return err
		}
		stat = s

		rpath, err := filepath.EvalSymlinks(from)
		if err != nil {
			return err
		}
		via[rpath] = struct{}{}
	}

	if !stat.IsDir() {
		return callback(from, stat)
	}

	return findFilesInDirectory(from, followLink, via, callback)
}

func findFilesInDirectory(from string, followLink bool, viaSymlink map[string]struct{}, callback func(string, fs.FileInfo) error) error {
	entries, err := os.ReadDir(from)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		err := func() error {
			fullpath := filepath.Join(from, entry.Name())
			stat, err := os.Lstat(fullpath)
			if err != nil {
				return err
			}

			if stat.Mode()&os.ModeSymlink != 0 && followLink {
				realpath, err := filepath.EvalSymlinks(fullpath)
				if err != nil {
					return err
				}
				if _, ok := viaSymlink[realpath]; ok {
					return ErrLoopSymlink
				}
				viaSymlink[realpath] = struct{}{}
				defer func() {
					delete(viaSymlink, realpath)
				}()

				s, err := os.Stat(fullpath)
				if err != nil {
					return err
				}
				stat = s
			}

			if stat.IsDir() {
				if err := findFilesInDirectory(
					fullpath, followLink, viaSymlink, callback,
				); err != nil {
					return err
				}
				return nil
			}

			return callback(fullpath, stat)
		}()

		if err != nil {
			return err
		}
	}
	return nil
}

// open file as long as ctx is alive.
func ctxOpen(ctx context.Context, p string) (io.ReadCloser, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	return &ctxReader{ctx: ctx, r: f}, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		r.Close()
		return 0, r.ctx.Err()
	default:
	}
	return r.r.Read(p)
}

func (r *ctxReader) Close() error {
	if closer, ok := r.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type reportingWriter struct {
	dest io.Writer
	prog *progress
}

func (w *reportingWriter) Write(p []byte) (int, error) {
	n, err := w.dest.Write(p)
	w.prog.doneSize += int64(n)
	return n, err
}

// countingWriter tracks the compressed bytes passing to the destination,
// and stops writing once the limit (if positive) is exceeded.
type countingWriter struct {
	dest  io.Writer
	prog  *progress
	limit int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	if w.limit > 0 && w.prog.writtenSize+int64(len(p)) > w.limit {
		return 0, ErrArchiveTooLarge
	}
	n, err := w.dest.Write(p)
	w.prog.writtenSize += int64(n)
	return n, err
}
