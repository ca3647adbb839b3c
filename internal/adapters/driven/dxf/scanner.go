package dxf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

const binarySentinel = "AutoCAD Binary DXF"

var errUnexpectedEOF = errors.New("unexpected end of file")

// tag is one DXF group: an integer code line followed by a value line
type tag struct {
	code  int
	value string
}

// str returns the value with surrounding whitespace removed
func (t tag) str() string {
	return strings.TrimSpace(t.value)
}

func (t tag) float() (float64, error) {
	v, err := strconv.ParseFloat(t.str(), 64)
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid number %q", t.code, t.value)
	}
	return v, nil
}

func (t tag) int() (int, error) {
	v, err := strconv.Atoi(t.str())
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid integer %q", t.code, t.value)
	}
	return v, nil
}

// scanner reads tags from an ASCII DXF stream. One tag can be pushed back
// so section readers can hand the terminating tag to their caller.
type scanner struct {
	lines  *bufio.Scanner
	tag    tag
	line   int
	pushed bool
	err    error
}

func newScanner(r io.Reader) *scanner {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &scanner{lines: lines}
}

// next advances to the next tag. It returns false at the end of input or on
// error; err distinguishes the two.
func (s *scanner) next() bool {
	if s.pushed {
		s.pushed = false
		return true
	}
	if s.err != nil || !s.lines.Scan() {
		if s.err == nil {
			s.err = s.lines.Err()
		}
		return false
	}
	s.line++
	codeLine := s.lines.Text()
	if s.line == 1 {
		codeLine = strings.TrimPrefix(codeLine, "\ufeff")
		if strings.HasPrefix(codeLine, binarySentinel) {
			s.err = errors.New("binary DXF is not supported")
			return false
		}
	}

	code, err := strconv.Atoi(strings.TrimSpace(codeLine))
	if err != nil {
		s.err = fmt.Errorf("line %d: invalid group code %q", s.line, codeLine)
		return false
	}

	if !s.lines.Scan() {
		s.err = s.lines.Err()
		if s.err == nil {
			s.err = fmt.Errorf("line %d: group %d has no value", s.line, code)
		}
		return false
	}
	s.line++
	s.tag = tag{code: code, value: strings.TrimRight(s.lines.Text(), "\r")}
	return true
}

// unread makes the current tag the result of the next call to next
func (s *scanner) unread() {
	s.pushed = true
}

// wrap annotates err with the current line number
func (s *scanner) wrap(err error) error {
	return fmt.Errorf("line %d: %w", s.line, err)
}

// skipSection consumes tags up to and including ENDSEC
func (s *scanner) skipSection() error {
	for s.next() {
		if s.tag.code == 0 && s.tag.str() == "ENDSEC" {
			return nil
		}
	}
	return s.eofError()
}

// eofError reports why the stream ended before the structure was complete
func (s *scanner) eofError() error {
	if s.err != nil {
		return s.err
	}
	return errUnexpectedEOF
}

// coord assigns t to the matching axis of p when t.code is base, base+10
// or base+20. It reports whether t was a coordinate of that point.
func coord(p *domain.Point3, t tag, base int) (bool, error) {
	axis := -1
	switch t.code {
	case base:
		axis = 0
	case base + 10:
		axis = 1
	case base + 20:
		axis = 2
	}
	if axis < 0 {
		return false, nil
	}
	v, err := t.float()
	if err != nil {
		return true, err
	}
	p[axis] = v
	return true, nil
}

// optCoord is coord for optional points, allocating *pp on first use
func optCoord(pp **domain.Point3, t tag, base int) (bool, error) {
	if t.code != base && t.code != base+10 && t.code != base+20 {
		return false, nil
	}
	if *pp == nil {
		*pp = &domain.Point3{}
	}
	return coord(*pp, t, base)
}

func floatPtr(t tag) (*float64, error) {
	v, err := t.float()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
