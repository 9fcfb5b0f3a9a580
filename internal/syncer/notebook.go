// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Page is one stroke-capture file within a document.
type Page struct {
	ID    string
	Path  string
	Index int
}

// Document is one logical notebook: its pages in order plus the folder
// path reconstructed from the device's parent pointers.
type Document struct {
	ID      string
	Name    string
	Folders []string
	Pages   []Page
}

// metadata mirrors the fields we need from a <uuid>.metadata file.
type metadata struct {
	VisibleName string `json:"visibleName"`
	Type        string `json:"type"`
	Parent      string `json:"parent"`
}

// content mirrors the page list from a <uuid>.content file. Older
// firmware writes a flat pages array; newer firmware nests it under
// cPages.
type content struct {
	Pages  []string `json:"pages"`
	CPages struct {
		Pages []struct {
			ID string `json:"id"`
		} `json:"pages"`
	} `json:"cPages"`
}

func (c content) pageIDs() []string {
	if len(c.Pages) > 0 {
		return c.Pages
	}
	ids := make([]string, 0, len(c.CPages.Pages))
	for _, p := range c.CPages.Pages {
		ids = append(ids, p.ID)
	}
	return ids
}

// Discover walks a copied reMarkable document tree and returns the
// documents it contains. Real device exports are flat directories of
// <uuid>.metadata / <uuid>.content / <uuid>/<page>.rm triples linked by
// parent pointers; bare .rm/.lines files without metadata are returned
// as single-page documents named after the file. Trashed documents are
// skipped.
func Discover(root string) ([]Document, error) {
	metas := make(map[string]metadata)
	metaDirs := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".metadata") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		var m metadata
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		id := strings.TrimSuffix(d.Name(), ".metadata")
		metas[id] = m
		metaDirs[id] = filepath.Dir(path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	var docs []Document
	claimed := make(map[string]bool)

	for id, m := range metas {
		if m.Type != "DocumentType" || inTrash(id, metas) {
			continue
		}
		pages := documentPages(metaDirs[id], id)
		for _, p := range pages {
			claimed[p.Path] = true
		}
		if len(pages) == 0 {
			continue
		}
		docs = append(docs, Document{
			ID:      id,
			Name:    m.VisibleName,
			Folders: folderPath(m.Parent, metas),
			Pages:   pages,
		})
	}

	loose, err := looseDocuments(root, claimed)
	if err != nil {
		return nil, err
	}
	docs = append(docs, loose...)

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// documentPages resolves a notebook's page files, preferring the order
// recorded in the .content file and falling back to a sorted directory
// listing when no page list exists.
func documentPages(dir, id string) []Page {
	pageDir := filepath.Join(dir, id)

	var ids []string
	if data, err := os.ReadFile(filepath.Join(dir, id+".content")); err == nil {
		var c content
		if err := json.Unmarshal(data, &c); err == nil {
			ids = c.pageIDs()
		}
	}

	var pages []Page
	if len(ids) > 0 {
		for i, pageID := range ids {
			path := filepath.Join(pageDir, pageID+".rm")
			if _, err := os.Stat(path); err != nil {
				continue
			}
			pages = append(pages, Page{ID: pageID, Path: path, Index: i})
		}
		return pages
	}

	entries, err := os.ReadDir(pageDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".rm") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for i, name := range names {
		pages = append(pages, Page{
			ID:    strings.TrimSuffix(name, ".rm"),
			Path:  filepath.Join(pageDir, name),
			Index: i,
		})
	}
	return pages
}

// folderPath follows parent pointers up through CollectionType entries.
// Broken or cyclic chains terminate rather than erroring.
func folderPath(parent string, metas map[string]metadata) []string {
	var reversed []string
	seen := make(map[string]bool)
	for parent != "" && parent != "trash" && !seen[parent] {
		seen[parent] = true
		m, ok := metas[parent]
		if !ok || m.Type != "CollectionType" {
			break
		}
		reversed = append(reversed, m.VisibleName)
		parent = m.Parent
	}
	folders := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		folders = append(folders, reversed[i])
	}
	return folders
}

// inTrash reports whether the document or any ancestor is trashed.
func inTrash(id string, metas map[string]metadata) bool {
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		m, ok := metas[id]
		if !ok {
			return false
		}
		if m.Parent == "trash" {
			return true
		}
		id = m.Parent
	}
	return false
}

// looseDocuments picks up bare .rm/.lines files that no notebook
// claimed, treating each as a single-page document that mirrors its
// relative directory.
func looseDocuments(root string, claimed map[string]bool) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || claimed[path] {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if ext != ".rm" && ext != ".lines" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		var folders []string
		if dir := filepath.Dir(rel); dir != "." {
			folders = strings.Split(dir, string(filepath.Separator))
		}
		name := strings.TrimSuffix(d.Name(), ext)
		docs = append(docs, Document{
			ID:      filepath.ToSlash(rel),
			Name:    name,
			Folders: folders,
			Pages:   []Page{{ID: filepath.ToSlash(rel), Path: path}},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return docs, nil
}
