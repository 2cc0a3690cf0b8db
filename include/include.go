package include

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/nickwells/check.mod/v2/check"
	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/nickwells/location.mod/location"
)

// DfltDirStart is the default start string for an include directive
// DfltDirEnd is the default end string for an include directive
//
// A line is an include directive if it starts with the start string. The
// path to be included is whatever follows it, less any trailing end string.
const (
	DfltDirStart = `#include "`
	DfltDirEnd   = `"`
)

// Expander records the information needed to expand include directives
//
// You should create a new Expander with New, giving the directory that the
// included paths are relative to, and then call Run on the document to be
// expanded. An Expander holds no state between runs, each call of Run starts
// with an empty Visited set.
type Expander struct {
	base      string
	dirStart  string
	dirEnd    string
	log       logr.Logger
	checkBase bool
}

type OptFunc func(e *Expander) error

// New creates a new Expander which will resolve included paths relative to
// the base directory. The base directory must exist and be a directory
// unless the SkipBaseCheck option is given.
func New(base string, opts ...OptFunc) (*Expander, error) {
	e := &Expander{
		base:      base,
		dirStart:  DfltDirStart,
		dirEnd:    DfltDirEnd,
		log:       logr.Discard(),
		checkBase: true,
	}

	for _, o := range opts {
		if err := o(e); err != nil {
			return nil, err
		}
	}

	if e.checkBase {
		es := filecheck.Provisos{
			Checks:    []check.FileInfo{check.FileInfoIsDir},
			Existence: filecheck.MustExist,
		}
		if err := es.StatusCheck(base); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// DirectiveStr returns an OptFunc that will change the strings that are used
// to recognise an include directive. The start string must not be empty. The
// default values are given by DfltDirStart and DfltDirEnd
func DirectiveStr(start, end string) OptFunc {
	return func(e *Expander) error {
		if start == "" {
			return errors.New("the include directive start string must not be empty")
		}
		e.dirStart = start
		e.dirEnd = end

		return nil
	}
}

// Logger returns an OptFunc that will set the logger used to report each
// file as it is expanded and each repeated include as it is skipped. These
// are logged at V(1).
func Logger(l logr.Logger) OptFunc {
	return func(e *Expander) error {
		e.log = l

		return nil
	}
}

// SkipBaseCheck returns an OptFunc that stops New from checking that the
// base directory exists.
func SkipBaseCheck() OptFunc {
	return func(e *Expander) error {
		e.checkBase = false

		return nil
	}
}

// Base returns the directory that included paths are resolved against
func (e *Expander) Base() string {
	return e.base
}

// Visited is the set of paths already expanded during one run. Paths are
// recorded exactly as they appear in the directive.
type Visited struct {
	paths map[string]bool
}

// NewVisited returns an empty Visited set
func NewVisited() *Visited {
	return &Visited{paths: make(map[string]bool)}
}

// Has reports whether the path has been recorded
func (v *Visited) Has(path string) bool {
	return v.paths[path]
}

// Add records the path
func (v *Visited) Add(path string) {
	v.paths[path] = true
}

// Len returns the number of paths recorded
func (v *Visited) Len() int {
	return len(v.paths)
}

// FileNotFoundError is returned when an included file cannot be opened or
// read. Path is the path as given in the directive, Resolved is the path
// actually opened and Loc is where the directive was found.
type FileNotFoundError struct {
	Path     string
	Resolved string
	Loc      string
	Err      error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("included file %q at %s could not be read: %v",
		e.Path, e.Loc, e.Err)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// ParseDirective reports whether the line is an include directive with the
// given start and end strings and returns the path it refers to. The line
// must begin with the start string, no leading space is allowed. The path is
// taken from the line with surrounding white space removed, then the start
// string removed and then one trailing end string removed, if present.
func ParseDirective(line, start, end string) (string, bool) {
	if !strings.HasPrefix(line, start) {
		return "", false
	}

	path := strings.TrimPrefix(strings.TrimSpace(line), start)
	if end != "" {
		path = strings.TrimSuffix(path, end)
	}
	return path, true
}

// Directive reports whether the line is an include directive for this
// Expander and returns the path it refers to.
func (e *Expander) Directive(line string) (string, bool) {
	return ParseDirective(line, e.dirStart, e.dirEnd)
}

// SplitLines splits the string into lines, each keeping its line terminator.
// A final line without a terminator is returned as it is. An empty string
// gives no lines.
func SplitLines(s string) []string {
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// ReadLines reads everything from r and splits it into lines as SplitLines
// does
func ReadLines(r io.Reader) ([]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(b)), nil
}

// Run reads the document from r and returns it with all the include
// directives expanded. The name is used to report the location of any
// directive that refers to a file which cannot be read.
func (e *Expander) Run(r io.Reader, name string) ([]string, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	return e.RunLines(lines, name)
}

// RunLines returns the lines with all the include directives expanded. The
// lines themselves are not a file and so are never treated as having been
// visited.
func (e *Expander) RunLines(lines []string, name string) ([]string, error) {
	return e.substitute(lines, location.New(name), NewVisited())
}

// Expand returns the expanded contents of the file at path. If the path has
// already been visited nothing is returned. Otherwise the path is added to
// the visited set before the file is read so that any later reference to it,
// from within its own contents or from anywhere else, is skipped.
func (e *Expander) Expand(path string, v *Visited) ([]string, error) {
	return e.expand(path, "-", v)
}

func (e *Expander) expand(path, from string, v *Visited) ([]string, error) {
	if v.Has(path) {
		e.log.V(1).Info("skipping repeated include", "path", path, "at", from)
		return []string{}, nil
	}
	v.Add(path)

	resolved := e.resolve(path)
	e.log.V(1).Info("expanding", "path", path, "file", resolved, "at", from)

	lines, err := readFile(resolved)
	if err != nil {
		return nil, &FileNotFoundError{
			Path:     path,
			Resolved: resolved,
			Loc:      from,
			Err:      err,
		}
	}

	return e.substitute(lines, location.New(path), v)
}

// substitute replaces each directive in the lines with the expansion of the
// file it refers to, in order
func (e *Expander) substitute(lines []string, loc *location.L, v *Visited,
) ([]string, error) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		loc.Incr()

		path, ok := e.Directive(line)
		if !ok {
			out = append(out, line)
			continue
		}

		expanded, err := e.expand(path, loc.String(), v)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// resolve returns the name of the file to open for the included path
func (e *Expander) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.base, path)
}

// readFile reads the whole of the named file and splits it into lines
func readFile(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLines(f)
}
