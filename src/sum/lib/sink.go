package sum

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
)

const (
	SINK_FILE = "file"
	SINK_GCS  = "gcs"

	REPORT_EXTENSION    = ".txt"
	REPORT_CONTENT_TYPE = "text/plain; charset=utf-8"
	REPORT_FILE_PERM    = 0o644
	REPORT_DIR_PERM     = 0o755
)

// ReportSink persists the rendered report of a client.
type ReportSink interface {
	Write(ctx context.Context, clientId string, report []byte) error
	Close() error
}

type ReportConfig struct {
	Sink   string
	Path   string
	Bucket string
	Prefix string
	Align  bool
	TopK   int
}

func (c ReportConfig) Options() ReportOptions {
	return ReportOptions{Align: c.Align, TopK: c.TopK}
}

func NewReportSink(ctx context.Context, conf ReportConfig) (ReportSink, error) {
	switch conf.Sink {
	case SINK_FILE, "":
		return NewFileSink(conf.Path)
	case SINK_GCS:
		return NewGCSSink(ctx, conf.Bucket, conf.Prefix)
	default:
		return nil, fmt.Errorf("unknown report sink %q", conf.Sink)
	}
}

func reportName(clientId string) string {
	return clientId + REPORT_EXTENSION
}

type FileSink struct {
	dir string
}

func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, REPORT_DIR_PERM); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Path(clientId string) string {
	return filepath.Join(s.dir, reportName(clientId))
}

func (s *FileSink) Write(_ context.Context, clientId string, report []byte) error {
	if err := os.WriteFile(s.Path(clientId), report, REPORT_FILE_PERM); err != nil {
		return fmt.Errorf("failed to write report of client %s: %w", clientId, err)
	}
	return nil
}

func (s *FileSink) Close() error {
	return nil
}

// GCSSink uploads reports as objects named <prefix>/<clientId>.txt.
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSSink(ctx context.Context, bucket, prefix string) (*GCSSink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs sink requires a bucket")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSink{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSSink) ObjectName(clientId string) string {
	return path.Join(s.prefix, reportName(clientId))
}

func (s *GCSSink) Write(ctx context.Context, clientId string, report []byte) error {
	object := s.ObjectName(clientId)
	writer := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	writer.ContentType = REPORT_CONTENT_TYPE

	if _, err := writer.Write(report); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload gs://%s/%s: %w", s.bucket, object, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", s.bucket, object, err)
	}
	return nil
}

func (s *GCSSink) Close() error {
	return s.client.Close()
}
