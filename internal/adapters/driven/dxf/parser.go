// Package dxf reads ASCII DXF documents into the drawing model.
package dxf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

// Ensure Parser implements DrawingParser
var _ driven.DrawingParser = (*Parser)(nil)

// ctxCheckInterval is how many tags are read between context checks
const ctxCheckInterval = 4096

// Parser reads the HEADER, TABLES and ENTITIES sections of an ASCII DXF.
// Only model space entities are kept. It is safe for concurrent use.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new Parser
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse reads a complete DXF document. Structural problems are reported as
// errors wrapping domain.ErrUnparseable; a cancelled context is returned as is.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*domain.Drawing, error) {
	d, err := p.parse(ctx, r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparseable, err)
	}

	p.logger.Debug("parsed drawing",
		"version", d.Version,
		"layers", len(d.Layers),
		"entities", len(d.Entities),
	)
	return d, nil
}

func (p *Parser) parse(ctx context.Context, r io.Reader) (*domain.Drawing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := newScanner(r)
	d := &domain.Drawing{}
	ext := newExtents()
	sections := 0

	for s.next() {
		t := s.tag
		if t.code != 0 {
			continue
		}

		switch t.str() {
		case "SECTION":
			sections++
			if err := p.readSection(ctx, s, d, ext); err != nil {
				return nil, err
			}
		case "EOF":
			return finish(d, ext, sections)
		}
	}

	if s.err != nil {
		return nil, s.err
	}
	// A missing EOF marker is tolerated when the sections were complete
	return finish(d, ext, sections)
}

func finish(d *domain.Drawing, ext *extents, sections int) (*domain.Drawing, error) {
	if sections == 0 {
		return nil, errors.New("no sections found")
	}
	d.Extents = ext.result()
	return d, nil
}

func (p *Parser) readSection(ctx context.Context, s *scanner, d *domain.Drawing, ext *extents) error {
	if !s.next() {
		return s.eofError()
	}
	if s.tag.code != 2 {
		return s.wrap(fmt.Errorf("expected section name, got group %d", s.tag.code))
	}

	switch s.tag.str() {
	case "HEADER":
		return p.readHeader(s, d)
	case "TABLES":
		return p.readTables(s, d)
	case "ENTITIES":
		return p.readEntities(ctx, s, d, ext)
	default:
		return s.skipSection()
	}
}

// readHeader keeps only the file version
func (p *Parser) readHeader(s *scanner, d *domain.Drawing) error {
	variable := ""
	for s.next() {
		t := s.tag
		switch {
		case t.code == 0 && t.str() == "ENDSEC":
			return nil
		case t.code == 9:
			variable = t.str()
		case variable == "$ACADVER" && t.code == 1:
			d.Version = t.str()
		}
	}
	return s.eofError()
}

// layerRecord is one entry of the LAYER table
type layerRecord struct {
	name  string
	color int
}

func (l *layerRecord) apply(t tag) error {
	switch t.code {
	case 2:
		l.name = t.str()
	case 62:
		c, err := t.int()
		if err != nil {
			return err
		}
		l.color = c
	}
	return nil
}

// layer converts the record; a negative color means the layer is off
func (l *layerRecord) layer() domain.Layer {
	color, off := l.color, false
	if color < 0 {
		color, off = -color, true
	}
	return domain.Layer{Name: l.name, Color: color, Off: off}
}

// readTables reads the LAYER table and skips every other table
func (p *Parser) readTables(s *scanner, d *domain.Drawing) error {
	var table string
	var wantName bool
	var record *layerRecord
	seen := make(map[string]bool)

	flush := func() {
		if record == nil {
			return
		}
		if record.name == "" || seen[record.name] {
			p.logger.Warn("ignoring layer table entry", "name", record.name, "line", s.line)
		} else {
			seen[record.name] = true
			d.Layers = append(d.Layers, record.layer())
		}
		record = nil
	}

	for s.next() {
		t := s.tag
		if t.code == 0 {
			flush()
			switch t.str() {
			case "ENDSEC":
				return nil
			case "TABLE":
				table, wantName = "", true
			case "ENDTAB":
				table = ""
			case "LAYER":
				if table == "LAYER" {
					record = &layerRecord{color: domain.DefaultColorIndex}
				}
			}
			continue
		}

		if wantName && t.code == 2 {
			table, wantName = t.str(), false
			continue
		}
		if record != nil {
			if err := record.apply(t); err != nil {
				return s.wrap(err)
			}
		}
	}
	return s.eofError()
}

// readEntities decodes every entity up to ENDSEC. Paper space entities and
// sub-entities such as VERTEX are dropped.
func (p *Parser) readEntities(ctx context.Context, s *scanner, d *domain.Drawing, ext *extents) error {
	var current *pending
	count := 0

	flush := func() {
		if current == nil || current.paper {
			current = nil
			return
		}
		e := current.entity()
		d.Entities = append(d.Entities, e)
		ext.addEntity(e)
		if br, ok := current.dec.(boundsReporter); ok {
			ext.add(br.boundaryPoints()...)
		}
		current = nil
	}

	for s.next() {
		count++
		if count%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		t := s.tag
		if t.code == 0 {
			flush()
			kind := t.str()
			if kind == "ENDSEC" {
				return nil
			}
			if !subEntities[kind] {
				current = newPending(kind)
			}
			continue
		}

		if current != nil {
			if err := current.apply(t); err != nil {
				return s.wrap(fmt.Errorf("%s: %w", current.kind, err))
			}
		}
	}
	return s.eofError()
}
