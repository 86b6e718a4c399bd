// cmd/pythonj is the command-line entry point: translate source files
// into target class files, or print version information.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"
	"github.com/ncruces/go-strftime"

	"pythonj/internal/errors"
	"pythonj/internal/translate"
)

const version = "0.1.0"

var buildDate = time.Now()

func main() { os.Exit(run()) }

// run is the whole program, factored out of main so the CLI integration
// tests can register it as a command with testscript's RunMain, which
// runs it from the test binary instead of a separately built binary.
func run() int {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		showVersion()
	case "translate":
		if err := translateCommand(args[1:]); err != nil {
			log.Printf("pythonj: %v", err)
			return 1
		}
	default:
		showUsage()
		return 1
	}
	return 0
}

func showUsage() {
	fmt.Println("usage: pythonj translate [-dump-ir] [-out DIR] FILE...")
	fmt.Println("       pythonj version")
}

func showVersion() {
	fmt.Printf("pythonj %s (built %s)\n", version, strftime.Format("%Y-%m-%d", buildDate))
}

func translateCommand(args []string) error {
	var dumpIR bool
	var outDir string
	var files []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-dump-ir":
			dumpIR = true
		case args[i] == "-out":
			i++
			if i >= len(args) {
				return fmt.Errorf("-out requires a directory argument")
			}
			outDir = args[i]
		default:
			files = append(files, args[i])
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}

	units, err := translate.TranslateAll(files)
	if err != nil {
		return err
	}

	var totalBytes int
	failed := 0
	for _, u := range units {
		if len(u.Diagnostics) > 0 {
			failed++
			errors.Fprint(os.Stderr, u.Diagnostics)
			continue
		}
		if dumpIR {
			fmt.Fprintf(os.Stderr, "-- %s --\n", u.Path)
			pretty.Fprintf(os.Stderr, "%# v\n", u)
		}
		if outDir != "" {
			outPath := filepath.Join(outDir, u.ClassName+".java")
			if err := os.WriteFile(outPath, []byte(u.Java), 0o644); err != nil {
				return err
			}
		}
		totalBytes += len(u.Java)
	}

	fmt.Printf("translated %d of %d files, %s of output\n",
		len(units)-failed, len(units), humanize.Bytes(uint64(totalBytes)))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to translate", failed)
	}
	return nil
}
