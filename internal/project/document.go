package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrNoChunk = errors.New("no active chunk found in the project document")

// Document is the root of the project object model, mirroring the host
// application's document: an ordered list of chunks, at most one active.
type Document struct {
	Chunks []*Chunk `json:"chunks"`
}

// Loads a project document from a JSON file
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read project file: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("cannot parse project file %s: %w", path, err)
	}
	return doc, nil
}

// Writes the document back to a JSON file
func (doc *Document) Save(path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize project document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write project file %s: %w", path, err)
	}
	return nil
}

// Returns the chunk flagged as active, or the first chunk when none is flagged.
// Returns ErrNoChunk on a document without chunks.
func (doc *Document) ActiveChunk() (*Chunk, error) {
	for _, chunk := range doc.Chunks {
		if chunk.Active {
			return chunk, nil
		}
	}
	if len(doc.Chunks) > 0 {
		return doc.Chunks[0], nil
	}
	return nil, ErrNoChunk
}
