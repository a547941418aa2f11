package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/internal/config"
	"github.com/mabhi256/ldiag/internal/html"
	"github.com/mabhi256/ldiag/internal/source"
	"github.com/mabhi256/ldiag/internal/tui"
	"github.com/mabhi256/ldiag/utils"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFormat string
	sourceRoots  []string
	htmlOut      string
	configPath   string
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Analyze reference chains from the leak tracker",
}

var chainAnalyzeCmd = &cobra.Command{
	Use:   "analyze [chain-or-file ...]",
	Short: "Parse chains, detect the leak frontier, and classify root causes",
	Long: `Analyze one or more reference chains.

Each argument is either a chain string or the path of a trace file holding
one chain per line ('#' comments and blank lines are skipped). With no
arguments, or with '-', chains are read from stdin.

Examples:
  ldiag chain analyze 'IVShopItemTemplate:029E8DD9C0[true]._cardTipCom.IVCardTipCom:029E8DE080[false]'
  ldiag chain analyze leaks.log -o cli-more --source-root ./Script
  ldiag chain analyze leaks.log -o html --html-out report.html
  cat leaks.log | ldiag chain analyze -o json`,
	ValidArgsFunction: completeTraceFiles,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// An empty -o defers to the config file's default.
		if outputFormat != "" {
			if err := config.ValidateOutput(outputFormat); err != nil {
				return err
			}
		}
		for _, root := range sourceRoots {
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("source root does not exist: %s", root)
			}
			if !info.IsDir() {
				return fmt.Errorf("source root is not a directory: %s", root)
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		inputs, err := gatherChains(args)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no chains to analyze (empty input)")
		}

		results := chain.AnalyzeAll(inputs, cfg.Parallelism, log())
		summary := chain.Aggregate(results)
		locator := newLocator(cfg)

		format := outputFormat
		if format == "tui" && !stdoutIsTerminal() {
			log().Warn("stdout is not a terminal, falling back to cli output")
			format = "cli"
		}

		switch format {
		case "json":
			report := chain.BuildJSONReport(results, summary, locator)
			data, err := report.Marshal()
			if err != nil {
				return fmt.Errorf("marshal report: %w", err)
			}
			fmt.Println(string(data))

		case "html":
			report := chain.BuildJSONReport(results, summary, locator)
			path, err := html.GenerateReport(report, htmlOut)
			if err != nil {
				return fmt.Errorf("generate HTML report: %w", err)
			}
			fmt.Printf("📄 HTML report written to %s\n", path)

		case "tui":
			if err := tui.StartTUI(results, summary); err != nil {
				return fmt.Errorf("unable to start TUI: %w", err)
			}

		default:
			chain.PrintReport(results, summary, chain.ReportOptions{
				Format:  format,
				Locator: locator,
			})
		}

		os.Exit(chain.ExitCode(results))
		return nil
	},
}

var chainValidateCmd = &cobra.Command{
	Use:               "validate [chain-or-file ...]",
	Short:             "Check that chains parse, without analyzing them",
	ValidArgsFunction: completeTraceFiles,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := gatherChains(args)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no chains to validate (empty input)")
		}

		invalid := 0
		for i, input := range inputs {
			c, err := chain.Parse(input)
			if err != nil {
				invalid++
				fmt.Printf("❌ Chain %d: %v\n", i+1, err)
				continue
			}
			summary := fmt.Sprintf("%d objects, %d relations", c.Len(), len(c.Edges))
			if c.NativeTag != "" {
				summary += fmt.Sprintf(", native tag %s", c.NativeTag)
			}
			fmt.Printf("✅ Chain %d: %s\n", i+1, summary)
		}

		if invalid > 0 {
			fmt.Printf("\n%d of %d chains failed to parse\n", invalid, len(inputs))
			os.Exit(chain.ExitBadChain)
		}
		fmt.Printf("\nAll %d chains are well-formed\n", len(inputs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)

	chainCmd.AddCommand(chainAnalyzeCmd)
	chainCmd.AddCommand(chainValidateCmd)

	chainAnalyzeCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (cli, cli-more, json, tui, html)")
	chainAnalyzeCmd.Flags().StringArrayVar(&sourceRoots, "source-root", nil, "Directory to scan for class source files (repeatable)")
	chainAnalyzeCmd.Flags().StringVar(&htmlOut, "html-out", "", "Output path for the HTML report")
	chainAnalyzeCmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/ldiag/config.yaml)")

	// When user types: ldiag chain analyze leaks.log -o <TAB>
	chainAnalyzeCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.ValidOutputs, cobra.ShellCompDirectiveNoFileComp
	})
}

var completeTraceFiles = utils.CompleteFilesByExtension([]string{".log", ".txt"}, true)

// loadConfig merges the config file with the command-line flags; flags win.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			// No home dir (containers); run on defaults.
			log().Debug("no user config dir", zap.Error(err))
			return applyFlagOverrides(config.Default()), nil
		}
		path = defaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log().Debug("config loaded", zap.String("path", path))
	return applyFlagOverrides(cfg), nil
}

func applyFlagOverrides(cfg *config.Config) *config.Config {
	if len(sourceRoots) > 0 {
		cfg.SourceRoots = sourceRoots
	}
	if outputFormat == "" {
		outputFormat = cfg.Output
	}
	return cfg
}

func newLocator(cfg *config.Config) chain.SourceLocator {
	if len(cfg.SourceRoots) == 0 {
		return nil
	}
	return source.New(cfg.SourceRoots, cfg.Extensions)
}

// gatherChains expands the analyze/validate arguments into chain lines.
// An argument naming an existing file contributes its lines; anything else
// is taken as a chain string. No arguments (or "-") means stdin.
func gatherChains(args []string) ([]string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return readChainLines(os.Stdin)
	}

	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && !info.IsDir() {
			file, err := os.Open(arg)
			if err != nil {
				return nil, fmt.Errorf("open trace file %s: %w", arg, err)
			}
			lines, err := readChainLines(file)
			file.Close()
			if err != nil {
				return nil, fmt.Errorf("read trace file %s: %w", arg, err)
			}
			log().Debug("trace file loaded", zap.String("path", arg), zap.Int("chains", len(lines)))
			inputs = append(inputs, lines...)
			continue
		}
		inputs = append(inputs, arg)
	}
	return inputs, nil
}

func readChainLines(r *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // chains can run long
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
