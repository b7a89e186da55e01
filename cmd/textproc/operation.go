package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/text"
)

type operationOptions struct {
	files       []string
	globs       []string
	exclude     []string
	impl        string
	json        bool
	keepNewline bool
}

// input is one unit of work. Files are read inside the worker, so path is
// set and text is empty until then.
type input struct {
	source string
	path   string
	text   string
}

type result struct {
	Source         string `json:"source"`
	Implementation string `json:"implementation"`
	Encoding       string `json:"encoding,omitempty"`
	Result         any    `json:"result"`
}

func newOperationCmd(root *rootOptions, op ops.Operation, use, short string, aliases ...string) *cobra.Command {
	opts := &operationOptions{}

	cmd := &cobra.Command{
		Use:     use + " [text...]",
		Short:   short,
		Aliases: aliases,
		Long: short + `.

Input is the arguments joined by a space. Without arguments, every --file and
every file matched by --glob is processed concurrently and printed in order.
Otherwise stdin is read. A single trailing newline is dropped from file and
stdin input unless --keep-newline is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.load(cmd)
			if err != nil {
				return err
			}

			inputs, err := opts.collect(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			results, err := opts.process(cmd.Context(), rt, op, inputs)
			if err != nil {
				return err
			}

			return opts.print(cmd.OutOrStdout(), results)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "read input from file (repeatable)")
	flags.StringArrayVarP(&opts.globs, "glob", "g", nil, "read input from files matching a ** pattern (repeatable)")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "skip glob matches whose path or base name matches this pattern")
	flags.StringVar(&opts.impl, "impl", "", "force a named implementation, e.g. reference")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")
	flags.BoolVar(&opts.keepNewline, "keep-newline", false, "keep the trailing newline of file and stdin input")

	return cmd
}

func (o *operationOptions) collect(stdin io.Reader, args []string) ([]input, error) {
	if len(args) > 0 {
		return []input{{source: "args", text: text.Valid(strings.Join(args, " "))}}, nil
	}

	paths, err := o.paths()
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		inputs := make([]input, len(paths))
		for i, p := range paths {
			inputs[i] = input{source: p, path: p}
		}
		return inputs, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	content, _ := text.Decode(data)
	return []input{{source: "stdin", text: o.trim(content)}}, nil
}

// paths lists explicit files first, then glob matches, without duplicates.
func (o *operationOptions) paths() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, f := range o.files {
		add(f)
	}

	for _, pattern := range o.globs {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if !o.excluded(m) {
				add(m)
			}
		}
	}

	return out, nil
}

func (o *operationOptions) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range o.exclude {
		if match, _ := doublestar.Match(pattern, slashed); match {
			return true
		}
		if match, _ := doublestar.Match(pattern, base); match {
			return true
		}
	}
	return false
}

func (o *operationOptions) trim(s string) string {
	if o.keepNewline {
		return s
	}
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

// process runs op over every input with at most cfg.Batch.Concurrency
// workers. Results keep input order; the first error cancels the rest.
func (o *operationOptions) process(ctx context.Context, rt *app, op ops.Operation, inputs []input) ([]result, error) {
	name := o.impl
	if name == "" {
		name, _ = rt.processor.Registry().Selected(op)
	}

	results := make([]result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.cfg.Batch.Concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := result{Source: in.source, Implementation: name}
			s := in.text
			if in.path != "" {
				content, detected, err := text.ReadFile(in.path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", in.path, err)
				}
				s = o.trim(content)
				res.Encoding = string(detected.Encoding)
			}

			out, err := rt.processor.Run(op, o.impl, s)
			if err != nil {
				return fmt.Errorf("%s: %w", in.source, err)
			}
			res.Result = out
			results[i] = res

			rt.log.Debug("processed", "operation", op.String(), "source", in.source, "implementation", name, "bytes", len(s))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *operationOptions) print(w io.Writer, results []result) error {
	if o.json {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		return enc.Encode(results)
	}

	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", r.Source)
		}

		switch v := r.Result.(type) {
		case string:
			fmt.Fprintln(w, v)
		case text.Frequencies:
			v.Each(func(c rune, n int) {
				fmt.Fprintf(w, "%q\t%d\n", c, n)
			})
		default:
			return fmt.Errorf("unexpected result %T", r.Result)
		}
	}
	return nil
}
