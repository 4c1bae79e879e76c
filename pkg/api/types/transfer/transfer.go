package transfer

// UploadURL is a presigned URL for single-part upload of one file.
type UploadURL struct {
	Path      string `json:"path"`
	UploadURL string `json:"upload_url"`
}

// PartURL is a presigned URL for one part of a multipart upload.
type PartURL struct {
	UploadURL  string `json:"upload_url"`
	PartNumber int    `json:"part_number"`
}

// MultipartUpload is a started multipart upload of one file.
type MultipartUpload struct {
	Path       string    `json:"path"`
	UploadID   string    `json:"upload_id"`
	UploadURLs []PartURL `json:"upload_urls"`
}

// CompletedPart reports an uploaded part when completing a multipart upload.
type CompletedPart struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}
