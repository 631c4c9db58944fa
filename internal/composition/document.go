package composition

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"composition-converter/internal/filesystem"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// loadDocument reads and parses the input composition. The file is only
// opened for reading.
func loadDocument(path string) (*etree.Document, error) {
	cfg := filesystem.DefaultRetryConfig()
	cfg.Label = "input"
	data, err := filesystem.ReadFileWithRetry(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return parseDocument(path, data)
}

func parseDocument(path string, data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: document has no root element", ErrParse, path)
	}
	return doc, nil
}

// hasDeclaration reports whether the document starts with an xml processing
// instruction.
func hasDeclaration(doc *etree.Document) bool {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			return true
		}
	}
	return false
}

// serializeDocument renders the tree, adding an XML declaration when the
// input had none. Tabs and line breaks in attribute values are written as
// character references so readers do not normalise them to spaces.
func serializeDocument(doc *etree.Document) ([]byte, error) {
	doc.WriteSettings.CanonicalAttrVal = true
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}
	if hasDeclaration(doc) {
		return body, nil
	}
	var buf bytes.Buffer
	buf.Grow(len(xmlDeclaration) + len(body))
	buf.WriteString(xmlDeclaration)
	buf.Write(body)
	return buf.Bytes(), nil
}

// saveDocument writes the tree atomically to path.
func saveDocument(doc *etree.Document, path string) error {
	data, err := serializeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	cfg := filesystem.DefaultRetryConfig()
	cfg.Label = "output"
	if err := filesystem.WriteFileAtomic(path, data, 0o644, cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}
