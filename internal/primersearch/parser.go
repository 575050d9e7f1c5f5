// internal/primersearch/parser.go
package primersearch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Report grammar markers. Field lines are tab-indented; the two strand
// lines are recognized by substring since the primer sequence leads them.
const (
	primerMarker   = "Primer name"
	amplimerMarker = "Amplimer"
	seqMarker      = "\tSequence: "
	ctgLenMarker   = "\tlength="
	ampLenMarker   = "\tAmplimer length: "
	fwdStrand      = "forward strand"
	revStrand      = "reverse strand"
)

// ParseError reports a line that violates the primersearch report grammar.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("primersearch: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IntegerError is a numeric field that failed to parse. Token is the raw
// text that was rejected.
type IntegerError struct {
	Field string
	Token string
	Err   error
}

func (e *IntegerError) Error() string {
	return fmt.Sprintf("%s: bad integer %q", e.Field, e.Token)
}

func (e *IntegerError) Unwrap() error { return e.Err }

var (
	errNoPrimer   = errors.New("Amplimer block before any Primer name line")
	errNoAmplimer = errors.New("field line outside an Amplimer block")
)

// state is the parser cursor: the primer pair and the amplimer that
// subsequent field lines populate. The amplimer is flushed into the
// record when the next block marker (or EOF) arrives.
type state struct {
	rec  *Record
	name string
	cur  *Amplimer
}

// Read parses one primersearch report in full. Unrecognized lines are
// ignored, so extra report sections pass through harmlessly; any
// violation of the grammar above aborts with a *ParseError.
func Read(r io.Reader) (*Record, error) {
	st := state{rec: NewRecord()}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()
		if err := st.feed(line); err != nil {
			return nil, &ParseError{Line: ln, Text: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("primersearch scan: %w", err)
	}
	st.flush()
	return st.rec, nil
}

func (st *state) feed(line string) error {
	switch {
	case strings.TrimSpace(line) == "":
		return nil

	case strings.HasPrefix(line, primerMarker):
		st.flush()
		f := strings.Fields(line)
		name := f[len(f)-1]
		st.name = name
		if _, seen := st.rec.Amplifiers[name]; !seen {
			st.rec.Names = append(st.rec.Names, name)
		}
		// A repeated name resets its list; the last block wins.
		st.rec.Amplifiers[name] = []Amplimer{}
		return nil

	case strings.HasPrefix(line, amplimerMarker):
		if st.name == "" {
			return errNoPrimer
		}
		st.flush()
		st.cur = &Amplimer{}
		return nil

	case strings.HasPrefix(line, seqMarker):
		if st.cur == nil {
			return errNoAmplimer
		}
		st.cur.ContigID = strings.TrimRight(strings.TrimPrefix(line, seqMarker), " \t")
		return nil

	case strings.HasPrefix(line, ctgLenMarker):
		if st.cur == nil {
			return errNoAmplimer
		}
		f := strings.Fields(strings.TrimPrefix(line, ctgLenMarker))
		if len(f) == 0 {
			return errors.New("empty contig length field")
		}
		n, err := parseInt("contig length", f[0])
		if err != nil {
			return err
		}
		st.cur.ContigLen = n
		return nil

	case strings.Contains(line, fwdStrand):
		if st.cur == nil {
			return errNoAmplimer
		}
		tok := strings.Split(line, " ")
		if len(tok) < 8 {
			return fmt.Errorf("forward strand line has %d fields, want at least 8", len(tok))
		}
		start, err := parseInt("forward start", tok[5])
		if err != nil {
			return err
		}
		mm, err := parseInt("forward mismatches", tok[7])
		if err != nil {
			return err
		}
		st.cur.FwdPrimer = strings.TrimPrefix(tok[0], "\t")
		st.cur.FwdStart = start
		st.cur.FwdMM = mm
		return nil

	case strings.Contains(line, revStrand):
		if st.cur == nil {
			return errNoAmplimer
		}
		tok := strings.Split(line, " ")
		if len(tok) < 8 {
			return fmt.Errorf("reverse strand line has %d fields, want at least 8", len(tok))
		}
		// The reverse position is printed bracketed: [480].
		start, err := parseInt("reverse start", strings.Trim(tok[5], "[]"))
		if err != nil {
			return err
		}
		mm, err := parseInt("reverse mismatches", tok[7])
		if err != nil {
			return err
		}
		st.cur.RevPrimer = strings.TrimPrefix(tok[0], "\t")
		st.cur.RevStart = start
		st.cur.RevMM = mm
		return nil

	case strings.HasPrefix(line, ampLenMarker):
		if st.cur == nil {
			return errNoAmplimer
		}
		f := strings.Fields(line)
		if len(f) < 2 {
			return errors.New("short Amplimer length line")
		}
		// Second-to-last field: "Amplimer length: 470 bp".
		n, err := parseInt("amplimer length", f[len(f)-2])
		if err != nil {
			return err
		}
		st.cur.AmpLen = n
		return nil
	}
	return nil
}

func (st *state) flush() {
	if st.cur == nil {
		return
	}
	st.rec.Amplifiers[st.name] = append(st.rec.Amplifiers[st.name], *st.cur)
	st.cur = nil
}

func parseInt(field, token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, &IntegerError{Field: field, Token: token, Err: err}
	}
	return n, nil
}
