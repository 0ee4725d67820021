package secondary

import "context"

// ReportArchive defines the secondary port for uploading run reports to
// object storage. Returns the stored object's key.
type ReportArchive interface {
	Upload(ctx context.Context, name string, payload []byte, contentType string) (string, error)
}
