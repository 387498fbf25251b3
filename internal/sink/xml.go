package sink

import (
	"context"
	"encoding/xml"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/mfolkers/gleaner/internal/table"
	"github.com/mfolkers/gleaner/internal/types"
)

// XMLSink writes the record set as <records><record>...</record></records>,
// with one leaf element per field.
type XMLSink struct {
	dir    string
	logger *slog.Logger
}

// NewXMLSink creates an XML sink rooted at dir.
func NewXMLSink(dir string, logger *slog.Logger) *XMLSink {
	return &XMLSink{
		dir:    dir,
		logger: logger.With("component", "xml_sink"),
	}
}

func (s *XMLSink) Name() string { return "xml" }

// Save writes <dir>/xml/<name>_<timestamp>.xml. A same-minute rerun with
// the same name overwrites the earlier file.
func (s *XMLSink) Save(ctx context.Context, t *table.Table, name string) (string, error) {
	path, err := outputPath(s.dir, "xml", name, "xml")
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")

	columns := t.Columns()
	elements := make([]string, len(columns))
	for i, c := range columns {
		elements[i] = xmlName(c)
	}

	root := xml.StartElement{Name: xml.Name{Local: "records"}}
	if err := enc.EncodeToken(root); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	for i := 0; i < t.Len(); i++ {
		rec := xml.StartElement{Name: xml.Name{Local: "record"}}
		if err := enc.EncodeToken(rec); err != nil {
			return "", &types.SinkError{Backend: s.Name(), Err: err}
		}
		for j, c := range columns {
			el := xml.StartElement{Name: xml.Name{Local: elements[j]}}
			if err := enc.EncodeElement(t.Cell(i, c), el); err != nil {
				return "", &types.SinkError{Backend: s.Name(), Err: err}
			}
		}
		if err := enc.EncodeToken(rec.End()); err != nil {
			return "", &types.SinkError{Backend: s.Name(), Err: err}
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	if err := enc.Flush(); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("XML written", "path", path, "rows", t.Len())
	return path, nil
}

// xmlName sanitizes a field name into a valid XML element name.
func xmlName(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		return "field"
	}
	if r := rune(name[0]); !unicode.IsLetter(r) && r != '_' {
		name = "_" + name
	}
	return name
}
