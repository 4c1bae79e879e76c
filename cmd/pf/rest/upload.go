package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cerr "github.com/periflow/cli/cmd/pf/errors"
	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	apitransfer "github.com/periflow/cli/pkg/api/types/transfer"
)

// MaxPartSize is the single-part upload limit of the storage vendors.
//
// Files at least this large go through multipart upload,
// split into parts of at most this size.
const MaxPartSize = int64(5) << 30 // 5 GiB

func uploadConcurrency() int {
	n := runtime.NumCPU() + 4
	if n > 32 {
		n = 32
	}
	return n
}

// localFile is a file found under the upload source.
type localFile struct {
	// local is the path on this machine.
	local string

	// remote is the path in the storage.
	remote string

	size  int64
	mtime time.Time
}

func (f localFile) fileInfo() apistorage.FileInfo {
	return apistorage.FileInfo{
		Name:  filepath.Base(f.remote),
		Path:  f.remote,
		MTime: f.mtime.UTC().Format(time.RFC3339),
		Size:  f.size,
	}
}

// scanUploadSource finds files to be uploaded.
//
// When source is a directory, files under it are collected recursively.
// With expand, storage paths are taken relative to source itself.
// Without, they keep the directory name as prefix.
func scanUploadSource(source string, expand bool) ([]localFile, error) {
	source = filepath.Clean(source)
	stat, err := os.Stat(source)
	if err != nil {
		return nil, err
	}

	if !stat.IsDir() {
		if expand {
			return nil, cerr.NewCuiError("expand is meaningful only for directories")
		}
		return []localFile{{
			local:  source,
			remote: filepath.Base(source),
			size:   stat.Size(),
			mtime:  stat.ModTime(),
		}}, nil
	}

	base := source
	if !expand {
		base = filepath.Dir(source)
	}

	found := []localFile{}
	err = filepath.WalkDir(source, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		found = append(found, localFile{
			local:  path,
			remote: filepath.ToSlash(rel),
			size:   info.Size(),
			mtime:  info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, cerr.NewCuiError(fmt.Sprintf("no file is found under %s", source))
	}
	return found, nil
}

func (c *client) UploadDatasetFiles(ctx context.Context, datasetId int, source string, expand bool) Progress[[]apistorage.FileInfo] {
	return c.uploadFiles(ctx, c.api+"/datastore/"+strconv.Itoa(datasetId), source, expand)
}

func (c *client) UploadCheckpointFiles(ctx context.Context, formId uuid.UUID, source string, expand bool) Progress[[]apistorage.FileInfo] {
	return c.uploadFiles(ctx, c.api+"/model_forms/"+formId.String(), source, expand)
}

// uploadFiles sends local files to the storage behind base, via presigned URLs.
//
// Small files get one URL each and are sent whole. Files of MaxPartSize
// or more are sent as multipart uploads, and aborted on failure so the
// storage does not keep half-received parts.
func (c *client) uploadFiles(ctx context.Context, base string, source string, expand bool) Progress[[]apistorage.FileInfo] {
	prog := newProgress[[]apistorage.FileInfo]()

	files, err := scanUploadSource(source, expand)
	if err != nil {
		prog.fail(err)
		close(prog.sent)
		close(prog.done)
		return prog
	}

	small := []localFile{}
	large := []localFile{}
	for _, f := range files {
		prog.totalSize += f.size
		if f.size < MaxPartSize {
			small = append(small, f)
		} else {
			large = append(large, f)
		}
	}

	go func() {
		defer close(prog.done)
		defer close(prog.sent)

		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(uploadConcurrency())

		if len(small) > 0 {
			urls, err := c.singlePartURLs(gctx, base, small)
			if err != nil {
				prog.fail(err)
				return
			}
			for _, f := range small {
				f := f
				u, ok := urls[f.remote]
				if !ok {
					prog.fail(cerr.NewCuiError(fmt.Sprintf(
						"server did not issue an upload URL for %s", f.remote,
					)))
					return
				}
				grp.Go(func() error {
					prog.setProgressingFile(f.remote)
					if err := c.putFile(gctx, u, f); err != nil {
						return err
					}
					prog.progressed(f.size)
					return nil
				})
			}
		}

		for _, f := range large {
			f := f
			grp.Go(func() error {
				prog.setProgressingFile(f.remote)
				return c.uploadMultipart(gctx, base, f, prog.progressed)
			})
		}

		if err := grp.Wait(); err != nil {
			prog.fail(err)
			return
		}

		uploaded := make([]apistorage.FileInfo, 0, len(files))
		for _, f := range files {
			uploaded = append(uploaded, f.fileInfo())
		}
		prog.result = &uploaded
	}()

	return prog
}

func (c *client) singlePartURLs(ctx context.Context, base string, files []localFile) (map[string]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.remote)
	}

	resp, err := c.doJSON(ctx, http.MethodPost, base+"/upload/", map[string]any{"paths": paths})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	issued := []apitransfer.UploadURL{}
	if err := unmarshalJsonResponse(resp, &issued, MessageFor{
		Status4xx: "failed to get upload URLs",
		Status5xx: "server error at getting upload URLs",
	}); err != nil {
		return nil, err
	}

	urls := map[string]string{}
	for _, u := range issued {
		urls[u.Path] = u.UploadURL
	}
	return urls, nil
}

// putFile sends a whole file to a presigned URL.
//
// Presigned URLs carry their own authorization, so no token is attached.
func (c *client) putFile(ctx context.Context, url string, f localFile) error {
	fp, err := os.Open(f.local)
	if err != nil {
		return err
	}
	defer fp.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, fp)
	if err != nil {
		return err
	}
	req.ContentLength = f.size

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: fmt.Sprintf("storage rejected the upload of %s", f.remote),
		Status5xx: fmt.Sprintf("storage error at uploading %s", f.remote),
	})
}

func (c *client) uploadMultipart(ctx context.Context, base string, f localFile, progressed func(int64)) error {
	numParts := int((f.size + MaxPartSize - 1) / MaxPartSize)

	resp, err := c.doJSON(ctx, http.MethodPost, base+"/start_mpu/", map[string]any{
		"path":      f.remote,
		"num_parts": numParts,
	})
	if err != nil {
		return err
	}

	mpu := apitransfer.MultipartUpload{}
	err = unmarshalJsonResponse(resp, &mpu, MessageFor{
		Status4xx: "failed to start the multipart upload",
		Status5xx: "server error at starting the multipart upload",
	})
	resp.Body.Close()
	if err != nil {
		return err
	}

	parts, err := c.putParts(ctx, f, mpu, progressed)
	if err != nil {
		c.abortMultipart(base, f.remote, mpu.UploadID)
		return err
	}

	resp, err = c.doJSON(ctx, http.MethodPost, base+"/complete_mpu/", map[string]any{
		"path":      f.remote,
		"upload_id": mpu.UploadID,
		"parts":     parts,
	})
	if err != nil {
		c.abortMultipart(base, f.remote, mpu.UploadID)
		return err
	}
	defer resp.Body.Close()

	if err := unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to complete the multipart upload",
		Status5xx: "server error at completing the multipart upload",
	}); err != nil {
		c.abortMultipart(base, f.remote, mpu.UploadID)
		return err
	}
	return nil
}

func (c *client) putParts(
	ctx context.Context, f localFile, mpu apitransfer.MultipartUpload, progressed func(int64),
) ([]apitransfer.CompletedPart, error) {
	fp, err := os.Open(f.local)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	parts := make([]apitransfer.CompletedPart, len(mpu.UploadURLs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(uploadConcurrency())

	for i, pu := range mpu.UploadURLs {
		i, pu := i, pu

		offset := int64(pu.PartNumber-1) * MaxPartSize
		size := MaxPartSize
		if rest := f.size - offset; rest < size {
			size = rest
		}

		grp.Go(func() error {
			req, err := http.NewRequestWithContext(
				gctx, http.MethodPut, pu.UploadURL,
				io.NewSectionReader(fp, offset, size),
			)
			if err != nil {
				return err
			}
			req.ContentLength = size

			resp, err := c.httpclient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if err := unmarshalResponseDiscardingPayload(resp, MessageFor{
				Status4xx: fmt.Sprintf("storage rejected part %d of %s", pu.PartNumber, f.remote),
				Status5xx: fmt.Sprintf("storage error at part %d of %s", pu.PartNumber, f.remote),
			}); err != nil {
				return err
			}

			parts[i] = apitransfer.CompletedPart{
				PartNumber: pu.PartNumber,
				ETag:       resp.Header.Get("ETag"),
			}
			progressed(size)
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

// abortMultipart is best effort cleanup. The original error is what
// the caller reports, so failures here are swallowed.
func (c *client) abortMultipart(base string, path string, uploadId string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := c.doJSON(ctx, http.MethodPost, base+"/abort_mpu/", map[string]any{
		"path":      path,
		"upload_id": uploadId,
	})
	if err != nil {
		return
	}
	io.ReadAll(resp.Body)
	resp.Body.Close()
}
