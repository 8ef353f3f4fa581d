package jobs

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/example/yasconvert/internal/archive"
	"github.com/example/yasconvert/internal/blob"
	"github.com/example/yasconvert/internal/codec"
	"github.com/example/yasconvert/internal/model"
)

// ErrNoFiles is returned by Submit when the request names no files.
var ErrNoFiles = errors.New("no files to convert")

// errBlobMissing is the fixed per-item failure for ids that are not
// (or are no longer) in the blob store.
var errBlobMissing = errors.New("missing from server memory")

// Coordinator accepts conversion requests and runs each job on its own
// goroutine, publishing progress to the registry as it goes. Within a
// job, files are processed strictly in request order.
type Coordinator struct {
	blobs    *blob.Store
	registry *Registry
	logger   *log.Logger
}

func NewCoordinator(blobs *blob.Store, registry *Registry, logger *log.Logger) *Coordinator {
	return &Coordinator{blobs: blobs, registry: registry, logger: logger}
}

// Submit registers a new running job and schedules its execution,
// returning the job id without waiting for any conversion work.
func (c *Coordinator) Submit(fileIDs []string, targetFormat string) (string, error) {
	if len(fileIDs) == 0 {
		return "", ErrNoFiles
	}
	targetFormat = strings.ToLower(strings.TrimSpace(targetFormat))

	jobID := uuid.NewString()
	c.registry.Create(jobID)

	ids := append([]string(nil), fileIDs...)
	go c.run(jobID, ids, targetFormat)

	return jobID, nil
}

func (c *Coordinator) run(jobID string, fileIDs []string, targetFormat string) {
	defer func() {
		if v := recover(); v != nil {
			c.logger.Error("conversion job panicked", "job", jobID, "panic", v)
		}
		// The job never stays running once the loop exits, even if
		// every item failed.
		c.registry.Complete(jobID)
	}()

	c.logger.Info("conversion job started", "job", jobID, "files", len(fileIDs), "format", targetFormat)

	total := len(fileIDs)
	for done, fileID := range fileIDs {
		// Published before the item is processed, so progress reflects
		// work not yet started on the current file.
		c.registry.SetProgress(jobID, done*100/total)
		c.registry.Append(jobID, c.processItem(fileID, targetFormat))
	}

	c.logger.Info("conversion job finished", "job", jobID)
}

// processItem converts one file and mutates its blob record in place.
// Any failure, including a panic, is confined to this item's result.
func (c *Coordinator) processItem(fileID, targetFormat string) (res model.ItemResult) {
	res = model.ItemResult{FileID: fileID}
	defer func() {
		if v := recover(); v != nil {
			c.logger.Error("item processing panicked", "file", fileID, "panic", v)
			c.blobs.Fail(fileID)
			res = model.ItemResult{
				FileID:  fileID,
				Outcome: model.ItemError,
				Err:     fmt.Errorf("unexpected failure: %v", v),
			}
		}
	}()

	rec, ok := c.blobs.Get(fileID)
	if !ok {
		res.Outcome = model.ItemError
		res.Err = errBlobMissing
		return res
	}

	var (
		converted []byte
		mediaType string
		name      string
		err       error
	)
	if strings.EqualFold(path.Ext(rec.Filename), ".zip") {
		converted, mediaType, name, err = c.convertArchive(rec, targetFormat)
	} else {
		converted, mediaType, name, err = c.convertSingle(rec, targetFormat)
	}
	if err != nil {
		c.logger.Error("conversion failed", "file", rec.Filename, "format", targetFormat, "err", err)
		c.blobs.Fail(fileID)
		res.Outcome = model.ItemError
		res.Err = err
		return res
	}

	c.blobs.Complete(fileID, converted, mediaType, name)
	res.Outcome = model.ItemCompleted
	res.DownloadName = name
	return res
}

func (c *Coordinator) convertSingle(rec model.Blob, targetFormat string) ([]byte, string, string, error) {
	format, err := codec.ParseFormat(targetFormat)
	if err != nil {
		return nil, "", "", err
	}
	out, err := codec.Convert(rec.Data, format)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to convert image: %w", err)
	}
	name := fmt.Sprintf("%s_converted.%s", baseName(rec.Filename), format)
	return out, format.MediaType(), name, nil
}

// convertArchive converts every image entry of a zip into a fresh
// output zip. Non-image entries and entries that fail to convert are
// left out of the output; only a failure of the archive itself fails
// the item.
func (c *Coordinator) convertArchive(rec model.Blob, targetFormat string) ([]byte, string, string, error) {
	format, err := codec.ParseFormat(targetFormat)
	if err != nil {
		return nil, "", "", err
	}
	entries, err := archive.List(rec.Data)
	if err != nil {
		return nil, "", "", err
	}

	out := make([]archive.Entry, 0, len(entries))
	for _, entry := range entries {
		if !archive.IsImageName(entry.Name) {
			continue
		}
		data, err := codec.Convert(entry.Data, format)
		if err != nil {
			c.logger.Warn("skipping archive entry", "archive", rec.Filename, "entry", entry.Name, "format", format, "err", err)
			continue
		}
		out = append(out, archive.Entry{
			Name: fmt.Sprintf("%s.%s", baseName(path.Base(entry.Name)), format),
			Data: data,
		})
	}

	zipBytes, err := archive.Build(out)
	if err != nil {
		return nil, "", "", err
	}
	name := fmt.Sprintf("%s_yasConvert!_%s.zip", baseName(rec.Filename), format)
	return zipBytes, "application/zip", name, nil
}

// baseName strips the final extension, keeping any directory part.
func baseName(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}
