package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	watermark "github.com/clearframe/wmrestore"
	"github.com/clearframe/wmrestore/batch"
	"github.com/clearframe/wmrestore/config"
	"github.com/clearframe/wmrestore/logging"
	"github.com/clearframe/wmrestore/server"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var (
		variantName string
		configPath  string
	)

	rootCmd := &cobra.Command{
		Use:   "wmrestore",
		Short: "Restore pixels beneath AI-generator watermarks",
		Long: `wmrestore inverts the alpha blend that stamped a fixed-position AI
watermark onto an image, recovering the original pixels beneath it.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&variantName, "variant", "gemini", "watermark family: gemini or nano-banana")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(newRestoreCmd(&variantName))
	rootCmd.AddCommand(newBatchCmd(&variantName, &configPath))
	rootCmd.AddCommand(newRegionCmd(&variantName))
	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	return config.Load(path)
}

func newRestoreCmd(variantName *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "restore <image>",
		Short: "Restore a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := watermark.ParseVariant(*variantName)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			restored, info, err := watermark.RestoreBytes(data, variant)
			if err != nil {
				return err
			}

			outPath := output
			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				outPath = filepath.Join(filepath.Dir(args[0]), base+"_restored.png")
			}

			if err := os.WriteFile(outPath, restored, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Printf("Restored %s -> %s [%s watermark at %v]\n", args[0], outPath, variant, info.Position)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "output path (defaults to <name>_restored.png)")
	return cmd
}

func newBatchCmd(variantName, configPath *string) *cobra.Command {
	var (
		outDir  string
		zipPath string
	)

	cmd := &cobra.Command{
		Use:   "batch <image>...",
		Short: "Restore many images with bounded concurrency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := watermark.ParseVariant(*variantName)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			log, err := logging.New("dev", cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer log.Sync()

			eng, err := watermark.NewEngine()
			if err != nil {
				return err
			}

			items := make([]batch.Item, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				items = append(items, batch.Item{Name: path, Data: data})
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			proc := batch.New(eng, cfg.Batch.Concurrency, log)
			results := proc.Process(ctx, items, variant)

			if zipPath != "" {
				f, err := os.Create(zipPath)
				if err != nil {
					return fmt.Errorf("create archive: %w", err)
				}
				defer f.Close()

				n, err := batch.WriteArchive(f, results)
				if err != nil {
					return err
				}
				fmt.Printf("Archived %d/%d restored images to %s\n", n, len(results), zipPath)
			} else {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
				for _, res := range results {
					if res.Err != nil {
						continue
					}
					base := strings.TrimSuffix(filepath.Base(res.Name), filepath.Ext(res.Name))
					if err := os.WriteFile(filepath.Join(outDir, base+"_restored.png"), res.Data, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", res.Name, err)
					}
				}
			}

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "failed: %s: %v\n", res.Name, res.Err)
				}
			}
			fmt.Printf("Done: %d ok, %d failed\n", len(results)-failed, failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "dir", ".", "directory for restored images")
	cmd.Flags().StringVar(&zipPath, "zip", "", "write restored images into a zip archive instead")
	return cmd
}

func newRegionCmd(variantName *string) *cobra.Command {
	return &cobra.Command{
		Use:   "region <width> <height>",
		Short: "Print the watermark rectangle for an image size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := watermark.ParseVariant(*variantName)
			if err != nil {
				return err
			}

			width, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid width %q", args[0])
			}
			height, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid height %q", args[1])
			}

			rect, err := watermark.RegionInfo(width, height, variant)
			if err != nil {
				return err
			}

			fmt.Printf("%s watermark on %dx%d: %dx%d at (%d,%d)\n",
				variant, width, height, rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y)
			return nil
		},
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP restoration service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.Server.Mode, cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer log.Sync()

			eng, err := watermark.NewEngine()
			if err != nil {
				log.Error("engine initialization failed", zap.Error(err))
				return err
			}

			server.Version = version
			return server.Run(cfg, log, eng)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("wmrestore", version)
		},
	}
}
