// Command uncbv lists, extracts, and decrypts CBV/CBZ archives.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antoyo/uncbv/internal/cbv"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "uncbv",
		Short:         "Inspect and extract CBV archives",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListCmd(), newExtractCmd(), newDecryptCmd())
	return root
}

// promptPassword returns a PasswordProvider that reads one line from
// stdin, stripping its trailing newline, each time it's called.
func promptPassword(archivePath string) cbv.PasswordProvider {
	return func() (string, error) {
		fmt.Fprintf(os.Stderr, "password for %s: ", archivePath)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// passwordFor returns a PasswordProvider for archivePath if it names an
// encrypted (.cbz) archive, or nil otherwise.
func passwordFor(archivePath string) cbv.PasswordProvider {
	if !strings.EqualFold(filepath.Ext(archivePath), ".cbz") {
		return nil
	}
	return promptPassword(archivePath)
}

func reportError(archivePath string, err error) error {
	return fmt.Errorf("%s: %w", archivePath, err)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <archive>",
		Short: "List the files recorded in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath := args[0]
			files, err := cbv.List(archivePath, passwordFor(archivePath))
			if err != nil {
				return reportError(archivePath, err)
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f.Name)
			}
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	var (
		output    string
		createDir bool
		noConfirm bool
		include   string
	)

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract every file in an archive to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath := args[0]
			outputDir := output
			if outputDir == "" {
				if !createDir {
					return fmt.Errorf("%s: extract requires --output <dir> (or --create-dir)", archivePath)
				}
				outputDir = strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
			}

			if createDir {
				if err := os.MkdirAll(outputDir, 0o777); err != nil {
					return reportError(archivePath, err)
				}
			} else if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
				return fmt.Errorf("%s: output directory %q does not exist (use --create-dir)", archivePath, outputDir)
			}

			overwrite := cbv.Ask(func(path string) (bool, error) {
				fmt.Fprintf(os.Stderr, "overwrite %s? [y/N] ", path)
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				return strings.EqualFold(strings.TrimSpace(line), "y"), nil
			})
			if noConfirm {
				overwrite = cbv.Always
			}

			failures, err := cbv.Extract(archivePath, outputDir, passwordFor(archivePath), overwrite, cbv.ExtractOptions{Include: include})
			if err != nil {
				return reportError(archivePath, err)
			}
			for _, f := range failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %v\n", archivePath, f.Name, f.Err)
			}
			if len(failures) > 0 {
				return fmt.Errorf("%s: %d file(s) failed to extract", archivePath, len(failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to extract into (required unless --create-dir is set)")
	cmd.Flags().BoolVar(&createDir, "create-dir", false, "create the output directory if it doesn't exist")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "overwrite existing files without asking")
	cmd.Flags().StringVar(&include, "include", "", "only extract files matching this glob pattern")

	return cmd
}

func newDecryptCmd() *cobra.Command {
	var (
		output    string
		noConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "decrypt <archive>",
		Short: "Decrypt a .cbz archive to a plaintext .cbv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath := args[0]
			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(archivePath, filepath.Ext(archivePath)) + ".cbv"
			}

			if !noConfirm {
				if _, err := os.Stat(outputPath); err == nil {
					fmt.Fprintf(os.Stderr, "overwrite %s? [y/N] ", outputPath)
					line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
					if !strings.EqualFold(strings.TrimSpace(line), "y") {
						return nil
					}
				}
			}

			if err := cbv.DecryptFile(archivePath, outputPath, promptPassword(archivePath)); err != nil {
				return reportError(archivePath, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write the decrypted archive to (default: archive name with .cbv extension)")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "overwrite an existing output file without asking")

	return cmd
}
