package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/output"
	"github.com/dshills/codelens/internal/source"
	"github.com/dshills/codelens/internal/workbench"
	"github.com/spf13/cobra"
)

// Pull request flags
var (
	flagRepo      string
	flagExtension string
	flagBase      string
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Work with open pull requests on GitHub",
}

var prListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open pull requests and their matching files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}
		logger := LoggerFromContext(cmd.Context())
		repo, err := resolveRepo(cfg)
		if err != nil {
			return fail(cmd, err)
		}
		client, err := newHostingClient(cfg, cfg.GitHub.Token, logger)
		if err != nil {
			return fail(cmd, err)
		}

		prs, err := client.ListPullRequests(cmd.Context(), repo, flagBase, cfg.GitHub.Extension)
		if err != nil {
			return fail(cmd, err)
		}
		if len(prs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), workbench.MsgNoPullRequests)
			return nil
		}
		return withOutput(cmd, func(w io.Writer) error {
			return output.WritePullRequests(w, cfg.Format, prs)
		})
	},
}

var prReviewCmd = &cobra.Command{
	Use:   "review <number> <path>",
	Short: "Ask Gemini to review one file of a pull request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parsePRNumber(args[0])
		if err != nil {
			return fail(cmd, err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}
		logger := LoggerFromContext(cmd.Context())
		repo, err := resolveRepo(cfg)
		if err != nil {
			return fail(cmd, err)
		}
		client, err := newHostingClient(cfg, cfg.GitHub.Token, logger)
		if err != nil {
			return fail(cmd, err)
		}
		engine, err := newEngine(cfg, logger)
		if err != nil {
			return fail(cmd, err)
		}

		pr, err := client.GetPullRequest(cmd.Context(), repo, number, cfg.GitHub.Extension)
		if err != nil {
			return fail(cmd, err)
		}
		path := args[1]
		if !slices.ContainsFunc(pr.Files, func(f github.ChangedFile) bool { return f.Name == path }) {
			if len(pr.Files) == 0 {
				return fail(cmd, usageError(errors.New(workbench.NoFilesMessage(cfg.GitHub.Extension))))
			}
			return fail(cmd, usageError(fmt.Errorf("%s is not a %s file changed in PR #%d (have: %s)",
				path, cfg.GitHub.Extension, number, fileNames(pr.Files))))
		}

		content, err := client.FetchRaw(cmd.Context(), repo, pr.Branch, path)
		if err != nil {
			return fail(cmd, err)
		}
		art := source.FromPullRequest(repo, pr.Branch, number, path, content)
		res, err := engine.Review(cmd.Context(), art)
		if err != nil {
			return fail(cmd, err)
		}
		if err := output.WriteResult(cmd.OutOrStdout(), res, cfg.Format, flagOut); err != nil {
			return fail(cmd, err)
		}
		return nil
	},
}

var prDiffCmd = &cobra.Command{
	Use:   "diff <number> <path>",
	Short: "Print the diff of one file in a pull request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parsePRNumber(args[0])
		if err != nil {
			return fail(cmd, err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}
		logger := LoggerFromContext(cmd.Context())
		repo, err := resolveRepo(cfg)
		if err != nil {
			return fail(cmd, err)
		}
		client, err := newHostingClient(cfg, cfg.GitHub.Token, logger)
		if err != nil {
			return fail(cmd, err)
		}

		patch, err := client.FileDiff(cmd.Context(), repo, number, args[1])
		if err != nil {
			return fail(cmd, err)
		}
		return withOutput(cmd, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, strings.TrimRight(patch, "\n"))
			return err
		})
	},
}

// withOutput runs write against --out, or the command's stdout.
func withOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	w := cmd.OutOrStdout()
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fail(cmd, fmt.Errorf("creating output file: %w", err))
		}
		defer f.Close()
		w = f
	}
	if err := write(w); err != nil {
		return fail(cmd, err)
	}
	return nil
}

func parsePRNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n <= 0 {
		return 0, usageError(fmt.Errorf("invalid pull request number %q", s))
	}
	return n, nil
}

func fileNames(files []github.ChangedFile) string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}

func init() {
	prCmd.PersistentFlags().StringVar(&flagRepo, "repo", "", "Repository as owner/repo (default: github.defaultRepo or git remote origin)")
	prCmd.PersistentFlags().StringVar(&flagExtension, "extension", "", "Only consider changed files with this extension")

	prListCmd.Flags().StringVar(&flagBase, "base", "", "Only list pull requests targeting this base branch")
	addOutputFlags(prListCmd)
	addOutputFlags(prReviewCmd)
	prDiffCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")

	prCmd.AddCommand(prListCmd)
	prCmd.AddCommand(prReviewCmd)
	prCmd.AddCommand(prDiffCmd)
}
