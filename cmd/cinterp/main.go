// Command cinterp runs a single C-subset source program and prints the
// interpreter's result. It is a thin collaborator: it knows how to find
// source text and how to print a Result, and nothing about interpretation
// itself.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"cinterp/interp"
	"cinterp/internal/fileinput"
	"cinterp/internal/flushio"
	"cinterp/internal/tracelog"
)

func main() {
	var (
		memLimit uint
		loopCap  int
		randSeed int64
		trace    bool
		asJSON   bool
		teePath  string
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "cap the number of distinct heap addresses (0 = unlimited)")
	flag.IntVar(&loopCap, "loop-cap", interp.DefaultLoopCap, "per-loop iteration ceiling")
	flag.Int64Var(&randSeed, "rand-seed", interp.DefaultRandSeed, "seed mixed into the deterministic rand() surface")
	flag.BoolVar(&trace, "trace", false, "log one line per executed statement and loop condition to stderr")
	flag.BoolVar(&asJSON, "json", false, "print the result envelope as JSON instead of plain text")
	flag.StringVar(&teePath, "tee", "", "also write program output to this file")
	flag.Parse()

	log := tracelog.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	source, err := readSource(flag.Args())
	if err != nil {
		log.Errorf("%v", err)
		return
	}

	opts := []interp.Option{
		interp.WithMemLimit(memLimit),
		interp.WithLoopCap(loopCap),
		interp.WithRandSeed(randSeed),
	}
	if trace {
		opts = append(opts, interp.WithLogf(log.Leveledf("TRACE")))
	}

	result := interp.New(opts...).Interpret(source)

	out := flushio.NewWriteFlusher(os.Stdout)
	defer out.Flush()
	if teePath != "" {
		tf, err := os.Create(teePath)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		defer tf.Close()
		out = flushio.WriteFlushers(out, flushio.NewWriteFlusher(tf))
	}
	if err := printResult(out, result, asJSON); err != nil {
		log.Errorf("%v", err)
		return
	}
	if !result.OK {
		log.Errorf("%s", result.Error)
	}
}

// readSource reads the program text: each named file in order (stdin if
// none are given, or "-" is given), concatenated through a single rune
// queue.
func readSource(paths []string) (string, error) {
	var in fileinput.Input
	if len(paths) == 0 {
		in.Queue = append(in.Queue, os.Stdin)
	}
	for _, p := range paths {
		if p == "-" {
			in.Queue = append(in.Queue, os.Stdin)
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return "", err
		}
		defer f.Close()
		in.Queue = append(in.Queue, namedFile{f, p})
	}

	var buf []rune
	for {
		r, _, err := in.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		buf = append(buf, r)
	}
	return string(buf), nil
}

type namedFile struct {
	*os.File
	path string
}

func (nf namedFile) Name() string { return nf.path }

func printResult(w io.Writer, result interp.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(result)
	}
	if result.OK {
		_, err := fmt.Fprint(w, result.Output)
		return err
	}
	_, err := fmt.Fprintf(w, "error: %s\n", result.Error)
	return err
}
