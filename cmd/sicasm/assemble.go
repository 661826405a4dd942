// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lassandro/sicasm/pkg/assembler"
)

var assembleFlags struct {
	optab          string
	out            string
	listing        bool
	intermediate   bool
	symtab         bool
	strict         bool
	breakOnReserve bool
	db             string
	jobs           int
}

var assembleCmd = &cobra.Command{
	Use:   "assemble [flags] source...",
	Short: "Assemble source files into object programs",
	Long: `Assemble runs pass 1 and pass 2 over each source file and writes the object
program next to the current directory with the extension '.obj'. When no
source is named and standard input is a pipe, the source is read from
standard input and written to 'out.obj'.

Several sources are assembled concurrently; they share the opcode table.`,
	RunE: runAssemble,
}

func init() {
	flags := assembleCmd.Flags()
	flags.StringVarP(&assembleFlags.optab, "optab", "t", "", "opcode table file")
	flags.StringVarP(
		&assembleFlags.out, "out", "o", "",
		"precise name for the output file, overriding the default; "+
			"only valid with a single source",
	)
	flags.BoolVar(&assembleFlags.listing, "listing", false, "also write the combined listing with extension '.lst'")
	flags.BoolVar(&assembleFlags.intermediate, "intermediate", false, "also write the intermediate file with extension '.int'")
	flags.BoolVar(&assembleFlags.symtab, "symtab", false, "also write the symbol table with extension '.sym'")
	flags.BoolVar(&assembleFlags.strict, "strict", false, "report redeclared labels and unresolved operands as errors")
	flags.BoolVar(&assembleFlags.breakOnReserve, "break-on-reserve", false, "start a new text record after RESW and RESB")
	flags.StringVar(&assembleFlags.db, "db", "", "sqlite database to record assembled programs in")
	flags.IntVarP(&assembleFlags.jobs, "jobs", "j", 4, "number of sources assembled at once")
	assembleCmd.MarkFlagRequired("optab")

	rootCmd.AddCommand(assembleCmd)
}

type job struct {
	name  string
	input []byte
	out   string
	diag  bytes.Buffer
	asm   *assembler.Assembly
}

func outputName(source, ext string) string {
	filename := filepath.Base(source)
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func collectJobs(args []string) ([]*job, error) {
	if len(args) == 0 {
		if !isPiped(os.Stdin) {
			return nil, errors.New("no source files named and standard input is a terminal")
		}

		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "reading standard input")
		}

		out := assembleFlags.out
		if out == "" {
			out = "out.obj"
		}

		return []*job{{name: "<stdin>", input: input, out: out}}, nil
	}

	if assembleFlags.out != "" && len(args) > 1 {
		return nil, errors.New("--out requires exactly one source file")
	}

	jobs := make([]*job, 0, len(args))
	outputs := make(map[string]string, len(args))

	for _, arg := range args {
		stat, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if stat.IsDir() {
			return nil, errors.Errorf("%s is not a valid assembly file", arg)
		}

		input, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}

		out := assembleFlags.out
		if out == "" {
			out = outputName(arg, ".obj")
		}

		if prev, exists := outputs[filepath.Clean(out)]; exists {
			return nil, errors.Errorf(
				"%s and %s would both be written to %s", prev, arg, out,
			)
		}

		outputs[filepath.Clean(out)] = arg

		jobs = append(jobs, &job{name: arg, input: input, out: out})
	}

	return jobs, nil
}

// report writes err to the job's diagnostics, underlining the offending
// field of the source line when the error carries a position.
func (j *job) report(err error, color bool) {
	prefix := bold(filepath.Base(j.name)+":", color)

	tokenErr, ok := err.(assembler.TokenError)
	if !ok {
		fmt.Fprintf(&j.diag, "%s %s\n", prefix, err)
		return
	}

	cursor := tokenErr.GetPosition()
	lines := strings.Split(string(j.input), "\n")

	if cursor.Line < 1 || cursor.Line > len(lines) {
		fmt.Fprintf(&j.diag, "%s %s\n", prefix, err)
		return
	}

	// Tabs become single spaces so columns line up with the underline
	line := strings.ReplaceAll(strings.TrimRight(lines[cursor.Line-1], "\r"), "\t", " ")

	width := 1
	if start := cursor.Column - 1; start >= 0 && start < len(line) {
		if end := strings.IndexByte(line[start:], ' '); end > 0 {
			width = end
		} else if end == -1 {
			width = len(line) - start
		}
	}

	fmt.Fprintf(
		&j.diag,
		"%s %s\n%s\n%s\n",
		prefix,
		err,
		line,
		red(strings.Repeat(" ", cursor.Column-1)+"^"+strings.Repeat("~", width-1), color),
	)
}

func (j *job) run(optab *assembler.OpTable, opts assembler.Options, color bool) error {
	asm, errs := assembler.Assemble(bytes.NewReader(j.input), optab, opts)

	if len(errs) > 0 {
		for _, err := range errs {
			j.report(err, color)
		}

		return errors.Errorf("%s: %d error(s)", j.name, len(errs))
	}

	j.asm = asm

	if err := os.WriteFile(j.out, []byte(asm.Program.String()+"\n"), 0666); err != nil {
		return errors.Wrap(err, "writing output file")
	}

	extras := []struct {
		enabled bool
		ext     string
		rows    func() []string
	}{
		{assembleFlags.listing, ".lst", asm.Report},
		{assembleFlags.intermediate, ".int", func() []string {
			return assembler.IntermediateRows(asm.Intermediate)
		}},
		{assembleFlags.symtab, ".sym", func() []string {
			return assembler.SymbolRows(asm.Symbols)
		}},
	}

	for _, extra := range extras {
		if !extra.enabled {
			continue
		}

		filename := filepath.Join(filepath.Dir(j.out), outputName(j.out, extra.ext))
		rows := extra.rows()

		if err := os.WriteFile(filename, []byte(strings.Join(rows, "\n")+"\n"), 0666); err != nil {
			return errors.Wrapf(err, "writing %s", filename)
		}
	}

	glog.V(1).Infof(
		"%s: %s, %d text record(s) written to %s",
		j.name, asm.Program.Header, len(asm.Program.Texts), j.out,
	)

	return nil
}

func runAssemble(cmd *cobra.Command, args []string) error {
	optab, err := assembler.ReadOpTableFile(assembleFlags.optab)
	if err != nil {
		return err
	}

	jobs, err := collectJobs(args)
	if err != nil {
		return err
	}

	opts := assembler.Options{
		Strict:         assembleFlags.strict,
		BreakOnReserve: assembleFlags.breakOnReserve,
	}

	color := isTerminal(os.Stderr)

	var g errgroup.Group
	if assembleFlags.jobs > 0 {
		g.SetLimit(assembleFlags.jobs)
	}

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			return j.run(optab, opts, color)
		})
	}

	err = g.Wait()

	for _, j := range jobs {
		os.Stderr.Write(j.diag.Bytes())
	}

	if err != nil {
		return err
	}

	if assembleFlags.db == "" {
		return nil
	}

	ctx := context.Background()

	s, closer, err := openStore(ctx, assembleFlags.db)
	if err != nil {
		return err
	}
	defer closer()

	for _, j := range jobs {
		id, err := s.Save(ctx, j.name, j.asm)
		if err != nil {
			return err
		}

		glog.V(1).Infof("%s: saved as program %d", j.name, id)
	}

	return nil
}
