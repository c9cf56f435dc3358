package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/regent/pkg/resolve"
	"github.com/macropower/regent/pkg/rules"
	"github.com/macropower/regent/pkg/session"
	"github.com/macropower/regent/pkg/topic"
	"github.com/macropower/regent/pkg/yaml"
)

const cmdExamples = `  # Resolve the effective rule set for a file:
  regent resolve src/main.m

  # Resolve for a specific consuming tool:
  regent resolve src/main.m --tool claude

  # Use project rules from a custom directory:
  regent resolve lib/calc.m --project-dir ./docs/rules

  # Flag conflicts between documents covering the same topic:
  regent resolve src/main.m --topic-expr 'a.contains("naming") && b.contains("naming")'

  # Watch for changes and re-resolve:
  regent resolve src/main.m --watch

  # Pipe the composed rule text into another tool:
  regent resolve src/main.m > rules.txt`

var outputFormats = []string{"text", "json", "yaml"}

type ResolveArgs struct {
	*RootArgs

	Target       string
	Tool         string
	GlobalDir    string
	WorkspaceDir string
	ProjectDir   string
	TopicExpr    string
	Output       string
	Watch        bool
}

func NewResolveArgs(rootArgs *RootArgs) *ResolveArgs {
	return &ResolveArgs{
		RootArgs: rootArgs,
	}
}

func (ra *ResolveArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.Tool, "tool", "", "Consuming tool identifier to resolve for")
	cmd.Flags().StringVar(&ra.GlobalDir, "global-dir", defaultGlobalDir(), "Directory of global rule documents")
	cmd.Flags().StringVar(&ra.WorkspaceDir, "workspace-dir", ".regent/workspace", "Directory of workspace rule documents")
	cmd.Flags().StringVar(&ra.ProjectDir, "project-dir", ".regent/rules", "Directory of project rule documents")
	cmd.Flags().StringVar(&ra.TopicExpr, "topic-expr", "", "CEL expression judging whether two blocks share a topic")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", "text", fmt.Sprintf("Output format, one of: %s", outputFormats))
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch for document changes and re-resolve")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewResolveCmd(ra *ResolveArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve [target]",
		Short:   "Compose the effective rule set for a target path and tool",
		Example: cmdExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Target = "."
			if len(args) > 0 {
				ra.Target = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *ResolveArgs) error {
	if !slices.Contains(outputFormats, ra.Output) {
		return fmt.Errorf("invalid argument: unknown output format %q", ra.Output)
	}

	var opts []session.Opt

	if ra.TopicExpr != "" {
		cls, err := topic.NewCEL(ra.TopicExpr)
		if err != nil {
			return fmt.Errorf("invalid topic expression: %w", err)
		}

		opts = append(opts, session.WithResolver(
			resolve.NewResolver(resolve.WithClassifier(cls)),
		))
	}

	sess, err := session.New(ra.sources(), opts...)
	if err != nil {
		return fmt.Errorf("load rule documents: %w", err)
	}

	logWarnings(sess.Warnings())

	printResolved := func() error {
		ers, err := sess.Resolve(cmd.Context(), ra.Target, ra.Tool)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", ra.Target, err)
		}

		return writeOutput(cmd.OutOrStdout(), ra.Output, ers)
	}

	if err := printResolved(); err != nil {
		return err
	}

	if !ra.Watch {
		return nil
	}

	slog.Info("watching for document changes",
		slog.String("target", ra.Target),
	)

	return sess.Watch(cmd.Context(), func(reloadErr error) {
		if reloadErr != nil {
			return
		}

		logWarnings(sess.Warnings())

		if err := printResolved(); err != nil {
			slog.Error("re-resolve after reload", slog.Any("error", err))
		}
	})
}

func (ra *ResolveArgs) sources() []session.DirSource {
	var sources []session.DirSource

	for _, ds := range []session.DirSource{
		{Root: ra.GlobalDir, Origin: rules.OriginGlobal},
		{Root: ra.WorkspaceDir, Origin: rules.OriginWorkspace},
		{Root: ra.ProjectDir, Origin: rules.OriginProject},
	} {
		if ds.Root != "" {
			sources = append(sources, ds)
		}
	}

	return sources
}

func logWarnings(warnings []rules.Warning) {
	for _, w := range warnings {
		slog.Warn("document excluded",
			slog.String("id", w.ID),
			slog.Any("error", w.Err),
		)
	}
}

func writeOutput(w io.Writer, format string, ers *resolve.EffectiveRuleSet) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(ers); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(ers); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()

	default:
		return writeText(w, ers)
	}
}

// writeText renders the rule set for humans when stdout is a terminal, and as
// plain concatenated rule text when piped into a consumer.
func writeText(w io.Writer, ers *resolve.EffectiveRuleSet) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprintln(w, ers.Text())
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	var b strings.Builder

	for _, block := range ers.Blocks {
		b.WriteString("# source: " + block.DocID + "\n")
		b.WriteString(block.Text + "\n\n")
	}

	for _, c := range ers.Conflicts {
		b.WriteString(fmt.Sprintf("# conflict: %s <> %s\n", c.DocA, c.DocB))
	}

	_, err := fmt.Fprint(w, b.String())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// defaultGlobalDir follows XDG conventions, falling back to the user home
// directory.
func defaultGlobalDir() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "regent", "rules")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "regent", "rules")
	}

	return filepath.Join(os.TempDir(), "regent", "rules")
}
