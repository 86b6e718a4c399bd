// Package translate drives the per-file pipeline (lex → parse → lower →
// emit) and fans it out across a list of source files concurrently.
package translate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"pythonj/internal/constpool"
	"pythonj/internal/emit"
	lowererr "pythonj/internal/errors"
	"pythonj/internal/lower"
	"pythonj/internal/pyparse"
)

// Unit is the result of translating one source file. Java is empty
// whenever Diagnostics is non-empty — a unit with reported problems is
// never emitted, per §7's error-count gate.
type Unit struct {
	Path        string
	ClassName   string
	Java        string
	Diagnostics []lowererr.Diagnostic
}

// classNameFor derives the target class name from a source file's base
// name: foo_bar.py becomes Foo_bar. The translator makes no attempt at
// snake_to_camel conversion — that would risk collisions between
// distinct module names.
func classNameFor(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return "Module"
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

// File translates one source file's contents into target source. A
// non-nil error here means the file could not even be parsed; a
// translatable-but-broken file instead comes back with a non-empty
// Diagnostics and no Java text.
func File(path string, src []byte) (Unit, error) {
	mod, err := pyparse.Parse(path, src)
	if err != nil {
		return Unit{}, errors.Wrapf(err, "parsing %s", path)
	}
	sink := lowererr.NewSink(path)
	pool := constpool.New()
	lz := lower.New(path, sink, pool)
	res := lz.LowerModule(mod)

	className := classNameFor(path)
	u := Unit{Path: path, ClassName: className, Diagnostics: sink.Diagnostics()}
	if sink.Count() == 0 {
		u.Java = emit.New().Emit(className, pool, res)
	}
	return u, nil
}

// TranslateAll reads and translates every path concurrently, preserving
// input order in the returned slice. A read or parse failure on any
// file aborts the whole batch; per-file semantic diagnostics do not —
// those come back attached to that file's Unit.
func TranslateAll(paths []string) ([]Unit, error) {
	units := make([]Unit, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			src, err := os.ReadFile(p)
			if err != nil {
				return errors.Wrapf(err, "reading %s", p)
			}
			u, err := File(p, src)
			if err != nil {
				return err
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}
