// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syncer runs the batch pipeline: discover documents under a
// source tree, decode and convert the pages that changed since the last
// run, and mirror the results into the output tree. One page's failure
// never aborts the batch; failures are counted and reported per page.
package syncer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mightytreefolk/ReMarkSync/internal/convert"
	"github.com/mightytreefolk/ReMarkSync/internal/lines"
	"github.com/mightytreefolk/ReMarkSync/internal/syncstate"
)

// Result holds the outcome of a sync run.
type Result struct {
	Synced  int
	Skipped int
	Failed  int
}

// Total returns the total number of pages processed.
func (r Result) Total() int {
	return r.Synced + r.Skipped + r.Failed
}

// HasFailures reports whether any pages failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Syncer wires the decoder, converter and sync-state store together.
type Syncer struct {
	Store     *syncstate.Store
	Converter *convert.Converter
	Options   convert.Options

	// Force re-converts every page regardless of recorded mod times.
	Force bool
}

// Sync processes every document under sourceDir, writing per-page
// status lines to w and a summary at the end.
func (s *Syncer) Sync(ctx context.Context, sourceDir, outDir string, w io.Writer) (Result, error) {
	docs, err := Discover(sourceDir)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		parts := []string{outDir}
		for _, folder := range doc.Folders {
			parts = append(parts, safeName(folder))
		}
		base := filepath.Join(parts...)
		synced := 0
		for _, page := range doc.Pages {
			target := pageTarget(base, doc, page)
			switch s.syncPage(ctx, doc, page, target, w) {
			case pageSynced:
				result.Synced++
				synced++
			case pageSkipped:
				result.Skipped++
			case pageFailed:
				result.Failed++
			}
		}

		if s.Store != nil && synced > 0 {
			rec := syncstate.NotebookRecord{
				ID:         doc.ID,
				Name:       doc.Name,
				PageCount:  len(doc.Pages),
				LastSynced: time.Now(),
			}
			if err := s.Store.RecordNotebook(ctx, rec); err != nil {
				fmt.Fprintf(w, "warning: recording %s: %v\n", doc.Name, err)
			}
		}
	}

	fmt.Fprintf(w, "\nSync summary: %d synced, %d skipped, %d failed (total: %d)\n",
		result.Synced, result.Skipped, result.Failed, result.Total())
	return result, nil
}

type pageStatus int

const (
	pageSynced pageStatus = iota
	pageSkipped
	pageFailed
)

// pageTarget places single-page documents directly at <name>.excalidraw
// and multi-page documents in a <name>/ directory of numbered pages.
func pageTarget(base string, doc Document, page Page) string {
	name := safeName(doc.Name)
	if len(doc.Pages) == 1 {
		return filepath.Join(base, name+".excalidraw")
	}
	return filepath.Join(base, name, fmt.Sprintf("page-%03d.excalidraw", page.Index+1))
}

// safeName reduces a device-supplied display name to a single path
// component: separators are replaced and names that would traverse
// upward are rejected.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, `\`, "-")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "untitled"
	}
	return name
}

func (s *Syncer) syncPage(ctx context.Context, doc Document, page Page, target string, w io.Writer) pageStatus {
	label := doc.Name
	if len(doc.Pages) > 1 {
		label = fmt.Sprintf("%s p%d", doc.Name, page.Index+1)
	}

	info, err := os.Stat(page.Path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
		return pageFailed
	}

	if s.Store != nil && !s.Force {
		needs, err := s.Store.NeedsSync(ctx, page.ID, info.ModTime())
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
			return pageFailed
		}
		if !needs {
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", label)
			return pageSkipped
		}
	}

	data, err := os.ReadFile(page.Path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
		return pageFailed
	}

	nb, err := lines.Decode(data)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
		return pageFailed
	}

	scene := s.Converter.Convert(nb, s.Options)
	out, err := scene.Marshal()
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
		return pageFailed
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
		return pageFailed
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
		return pageFailed
	}

	if s.Store != nil {
		rec := syncstate.PageRecord{
			ID:         page.ID,
			NotebookID: doc.ID,
			SourcePath: page.Path,
			OutputPath: target,
			ModTime:    info.ModTime(),
			SyncedAt:   time.Now(),
		}
		if err := s.Store.MarkSynced(ctx, rec); err != nil {
			fmt.Fprintf(w, "warning: recording %s: %v\n", label, err)
		}
	}

	fmt.Fprintf(w, "synced:  %s -> %s\n", label, target)
	return pageSynced
}
