package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/mabhi256/ldiag/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ldiag",
	Short: "Leak diagnostics for Lua/C++ reference chains",
	Long:  `ldiag analyzes reference chains emitted by the Lua binding leak tracker: it parses each chain, finds the wrappers that were never released, classifies the probable root cause, and reports which fix pays off the most.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(verbose)

		if cmd.Name() == "install" || cmd.Name() == "version" || cmd.Name() == "help" {
			return
		}

		sc, ok := shellCompletions[currentShell()]
		if !ok {
			return // no auto-setup for shells we cannot generate for
		}

		if !sc.installed() {
			fmt.Println("🔧 First run detected, setting up ldiag...")
			if installCompletions(cmd.Root(), sc) == nil {
				fmt.Println("✅ Shell completions installed")
				fmt.Println("💡 Restart your shell to enable tab completion")
			} else {
				fmt.Println("⚠️  Auto-setup failed. Run 'ldiag install' to try again.")
			}
		}
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completions",
	Run: func(cmd *cobra.Command, args []string) {
		if !isInPath() {
			printPathInstructions()
			return
		}

		sc, ok := shellCompletions[currentShell()]
		if !ok {
			fmt.Printf("❌ Shell completion not supported for: %s\n", currentShell())
			fmt.Println("Supported shells: bash, zsh, fish, powershell")
			return
		}

		if sc.installed() {
			fmt.Println("✅ Already configured!")
			return
		}

		fmt.Println("📦 Installing completions...")
		if err := installCompletions(cmd.Root(), sc); err != nil {
			fmt.Printf("❌ Failed: %v\n", err)
		} else {
			fmt.Println("✅ Done! Restart your shell to enable tab completion.")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// log returns the process logger; commands that run before PersistentPreRun
// (completion functions mostly) still get a usable logger.
func log() *zap.Logger {
	if logger == nil {
		logger = logging.New(verbose)
	}
	return logger
}

// shellCompletion describes where a shell expects its completion script and
// how to produce one.
type shellCompletion struct {
	dir      string // script directory, relative to the user's home
	file     string
	generate func(root *cobra.Command, w io.Writer) error
	activate func(dir, script string) string
}

var shellCompletions = map[string]shellCompletion{
	"bash": {
		dir:      ".local/share/bash-completion/completions",
		file:     "ldiag",
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
		activate: func(_, script string) string { return "source " + script },
	},
	"zsh": {
		dir:      ".zsh/completions",
		file:     "_ldiag",
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		activate: func(dir, _ string) string {
			return fmt.Sprintf("fpath=(%s $fpath) && autoload -U compinit && compinit", dir)
		},
	},
	"fish": {
		dir:      ".config/fish/completions",
		file:     "ldiag.fish",
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		// Makes fish reload its completion index.
		activate: func(_, _ string) string { return "complete --do-complete=ldiag" },
	},
	"powershell": {
		dir:      "",
		file:     "ldiag_completion.ps1",
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
		activate: func(_, script string) string { return ". " + script },
	},
}

// scriptPath resolves the completion directory and script file under home.
func (sc shellCompletion) scriptPath(home string) (dir, script string) {
	dir = filepath.Join(home, sc.dir)
	return dir, filepath.Join(dir, sc.file)
}

func (sc shellCompletion) installed() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	_, script := sc.scriptPath(home)
	_, err = os.Stat(script)
	return err == nil
}

func currentShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	// filepath.Base("") is ".", so an unset SHELL lands on the default.
	if shell := filepath.Base(os.Getenv("SHELL")); shell != "." {
		return shell
	}
	return "bash"
}

func installCompletions(root *cobra.Command, sc shellCompletion) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir, script := sc.scriptPath(home)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(script)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := sc.generate(root, f); err != nil {
		return err
	}
	log().Debug("completion script written", zap.String("path", script))

	fmt.Println("🔄 Run this command to enable completions right away:")
	fmt.Printf("   %s\n", sc.activate(dir, script))
	return nil
}

func isInPath() bool {
	execPath, err := os.Executable()
	if err != nil {
		return false
	}

	dirs := strings.Split(os.Getenv("PATH"), string(os.PathListSeparator))
	return slices.Contains(dirs, filepath.Dir(execPath))
}

func printPathInstructions() {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	fmt.Printf("❌ ldiag not in PATH. Binary location: %s\n\n", execPath)

	if runtime.GOOS == "windows" {
		fmt.Printf("Add to PATH: %s\n", execDir)
	} else {
		fmt.Printf("Add to shell profile: export PATH=\"%s:$PATH\"\n", execDir)
		fmt.Println("Or copy to: /usr/local/bin")
	}
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}
