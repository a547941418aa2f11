package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// Rotated trace files carry a numeric suffix after the real extension,
// e.g. leaks.log.1 or leaks.log.12.
var rotationSuffix = regexp.MustCompile(`\.\d+$`)

// CompleteFilesByExtension builds a cobra ValidArgsFunction that offers
// directories plus files ending in one of extensions. When rotated is set,
// numbered rotations of a matching file count as matches too.
func CompleteFilesByExtension(extensions []string, rotated bool) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	matches := func(name string) bool {
		if rotated {
			name = rotationSuffix.ReplaceAllString(name, "")
		}
		return slices.ContainsFunc(extensions, func(ext string) bool {
			return strings.HasSuffix(name, ext)
		})
	}

	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		dir, prefix := filepath.Split(toComplete)
		if dir == "" {
			dir = "."
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var suggestions []string
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") || !strings.HasPrefix(name, prefix) {
				continue
			}

			switch {
			case entry.IsDir():
				suggestions = append(suggestions, filepath.Join(dir, name)+"/")
			case matches(name):
				suggestions = append(suggestions, filepath.Join(dir, name))
			}
		}

		slices.Sort(suggestions)
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
}
