// Package export writes packing results to the atlas metadata document and
// to optional report formats.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/atlaspack/internal/model"
)

// ErrNoPlacements is returned by report exporters for an empty result.
var ErrNoPlacements = errors.New("no placements to export")

// WriteMetadata writes the fragment document for result: a JSON object
// keyed by request ID, in placement order, e.g.
//
//	{
//	  "a.png": {"center": {"x": 25, "y": 25}, "size": {"x": 50, "y": 50}}
//	}
//
// encoding/json sorts map keys, so the object is assembled by hand.
func WriteMetadata(w io.Writer, result model.PackResult) error {
	var raw bytes.Buffer
	raw.WriteByte('{')
	for i, f := range result.Fragments() {
		if i > 0 {
			raw.WriteByte(',')
		}
		key, err := json.Marshal(f.ID)
		if err != nil {
			return fmt.Errorf("failed to encode id %q: %w", f.ID, err)
		}
		val, err := json.Marshal(f.Fragment)
		if err != nil {
			return fmt.Errorf("failed to encode fragment %q: %w", f.ID, err)
		}
		raw.Write(key)
		raw.WriteByte(':')
		raw.Write(val)
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("failed to format metadata: %w", err)
	}
	out.WriteByte('\n')

	_, err := w.Write(out.Bytes())
	return err
}

// ExportMetadata writes the fragment document to path.
func ExportMetadata(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	if err := WriteMetadata(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadMetadata parses a fragment document, keeping the key order of the file.
func ReadMetadata(r io.Reader) ([]model.NamedFragment, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var out []model.NamedFragment
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", tok)
		}
		var frag model.Fragment
		if err := dec.Decode(&frag); err != nil {
			return nil, fmt.Errorf("failed to read fragment %q: %w", id, err)
		}
		out = append(out, model.NamedFragment{ID: id, Fragment: frag})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
