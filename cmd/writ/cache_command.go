package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"writ/internal/corpus"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Corpus cache maintenance",
	}

	cacheCmd.AddCommand(newCacheBuildCommand(ctx))
	cacheCmd.AddCommand(newCacheInfoCommand(ctx))

	return cacheCmd
}

func newCacheBuildCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build <dir|manifest.toml>",
		Short: "Build the binary corpus cache from license texts",
		Long: `Normalize and shingle a set of license texts once, then write the
result as a compressed binary cache so later commands skip that work.
The argument is either a directory of .txt files (the file stem becomes
the license id) or a TOML manifest listing ids, paths, and aliases.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			input := strings.TrimSpace(args[0])
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("stat %s: %w", input, err)
			}

			var sources []corpus.Source
			if info.IsDir() {
				sources, err = corpus.FromDirectory(input)
			} else {
				sources, err = corpus.FromManifest(input)
			}
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("no license texts found in %s", input)
			}

			store, err := corpus.Build(sources)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = cfg.Paths.CachePath
			}
			if err := store.WriteFile(target); err != nil {
				return fmt.Errorf("write cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cached %d entries to %s\n", store.Len(), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Cache destination (default: configured cache_path)")
	return cmd
}

func newCacheInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache file details",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			info, err := os.Stat(cfg.Paths.CachePath)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintf(out, "No cache at %s; the embedded corpus is in use\n", cfg.Paths.CachePath)
					return nil
				}
				return fmt.Errorf("stat cache: %w", err)
			}

			store, err := corpus.ReadFile(cfg.Paths.CachePath)
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}

			fmt.Fprintf(out, "Path:    %s\n", cfg.Paths.CachePath)
			fmt.Fprintf(out, "Format:  v%d\n", corpus.FormatVersion)
			fmt.Fprintf(out, "Size:    %d bytes\n", info.Size())
			fmt.Fprintf(out, "Entries: %d\n", store.Len())
			return nil
		},
	}
}
