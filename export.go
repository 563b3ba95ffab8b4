package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

const ExportFileName = "votes.csv"

type exporter interface {
	Export(ctx context.Context) (io.ReadCloser, error)
}

// ExportDownloader fetches the vote export and hands it to a Saver. It never
// touches the feed.
type ExportDownloader struct {
	client exporter
	saver  Saver
	logger *slog.Logger
}

func NewExportDownloader(client exporter, saver Saver, logger *slog.Logger) *ExportDownloader {
	return &ExportDownloader{client: client, saver: saver, logger: resolveLogger(logger)}
}

// Run downloads the export once. Failures are logged and dropped; the
// returned path is empty when nothing was saved.
func (e *ExportDownloader) Run(ctx context.Context) string {
	requestID := uuid.NewString()
	body, err := e.client.Export(withRequestID(ctx, requestID))
	if err != nil {
		e.logger.Error("export failed", "request_id", requestID, "error", err)
		return ""
	}
	defer body.Close()

	path, err := e.saver.Save(ctx, ExportFileName, body)
	if err != nil {
		e.logger.Error("export failed", "request_id", requestID, "error", err)
		return ""
	}
	e.logger.Info("export saved", "request_id", requestID, "path", path)
	return path
}
