package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/engine"
	"github.com/fyrsmithlabs/codesim/internal/history"
	"github.com/fyrsmithlabs/codesim/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// maxSnippetBytes bounds a single input file.
const maxSnippetBytes = 4 << 20

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum number of most recent revisions (0 = all)")
}

var pairCmd = &cobra.Command{
	Use:   "pair <file-a> <file-b>",
	Short: "Score the similarity of two files",
	Long: `Score the similarity of two files as a percentage.

Use - to read one of the files from stdin.

Examples:
  codesim pair a.py b.py
  cat a.py | codesim pair - b.py --provider none`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snippets, err := readSnippets(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			score := a.engine.ScoreSnippetPair(ctx, snippets[0].Code, snippets[1].Code)
			return renderPair(cmd.OutOrStdout(), outputFormat, snippets[0].ID, snippets[1].ID, score)
		})
	},
}

var matrixCmd = &cobra.Command{
	Use:   "matrix <file>...",
	Short: "Score every pair of files",
	Long: `Build a symmetric similarity matrix over two or more files.

Examples:
  codesim matrix submissions/*.java
  codesim matrix --format json a.go b.go c.go`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snippets, err := readSnippets(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			m := a.engine.BuildSimilarityMatrix(ctx, snippets)
			return renderMatrix(cmd.OutOrStdout(), outputFormat, m)
		})
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace <file>...",
	Short: "Score consecutive versions of a file",
	Long: `Score each file against the next one, in the order given.

The files are treated as successive versions of the same program, oldest
first.

Examples:
  codesim trace attempt1.c attempt2.c attempt3.c`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snippets, err := readSnippets(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		snaps := make([]engine.Snapshot, len(snippets))
		for i, s := range snippets {
			snaps[i] = engine.Snapshot{Snippet: s, Version: i + 1}
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			trace := a.engine.BuildSequentialTrace(ctx, snaps)
			return renderTrace(cmd.OutOrStdout(), outputFormat, snaps, trace)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <repo> <path>",
	Short: "Score consecutive git revisions of a file",
	Long: `Load the git history of one file and score each revision against the next.

Examples:
  codesim history . internal/engine/engine.go
  codesim history ~/src/project main.py --limit 10`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			snaps, err := history.Load(ctx, args[0], args[1], historyLimit)
			if err != nil {
				return err
			}
			a.logger.Debug(ctx, "history loaded",
				zap.Int("revisions", len(snaps)),
				zap.String("branch", history.CurrentBranch(args[0])),
			)
			trace := a.engine.BuildSequentialTrace(ctx, snaps)
			return renderTrace(cmd.OutOrStdout(), outputFormat, snaps, trace)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Score each saved version of a file against the previous one",
	Long: `Watch a file and print a trace entry every time it is saved with new content.

Stop with Ctrl-C.

Examples:
  codesim watch solution.py`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withApp(cmd, func(ctx context.Context, a *app) error {
			w, err := watch.New(args[0], watch.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer w.Stop()
			if err := w.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var prev *engine.Snapshot
			for snap := range w.Snapshots() {
				if prev != nil {
					entry := a.engine.NextTraceEntry(ctx, prev.Version-1, *prev, snap)
					if err := renderTraceEntry(out, outputFormat, *prev, snap, entry); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (version %d)\n", args[0], snap.Version)
				}
				prev = &snap
			}
			return nil
		})
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Print the normalized text that would be embedded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snippets, err := readSnippets(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.engine.Normalize(snippets[0].Code))
			return err
		})
	},
}

// withApp bootstraps, runs fn and always tears down.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close(ctx)
	return fn(ctx, a)
}

// readSnippets reads each path, or stdin for "-", into a Snippet whose ID is
// the path.
func readSnippets(stdin io.Reader, paths []string) ([]engine.Snippet, error) {
	snippets := make([]engine.Snippet, 0, len(paths))
	usedStdin := false
	for _, path := range paths {
		var code []byte
		var err error
		if path == "-" {
			if usedStdin {
				return nil, fmt.Errorf("stdin (-) can only be used once")
			}
			usedStdin = true
			code, err = io.ReadAll(io.LimitReader(stdin, maxSnippetBytes+1))
		} else {
			code, err = readFile(path)
		}
		if err != nil {
			return nil, err
		}
		if len(code) > maxSnippetBytes {
			return nil, fmt.Errorf("%s: larger than %d bytes", path, maxSnippetBytes)
		}

		snippets = append(snippets, engine.Snippet{ID: path, Code: string(code), Timestamp: fileModTime(path)})
	}
	return snippets, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSnippetBytes+1))
}

// fileModTime returns the modification time of path, or the zero time for
// stdin and unreadable paths.
func fileModTime(path string) time.Time {
	if path == "-" {
		return time.Time{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
