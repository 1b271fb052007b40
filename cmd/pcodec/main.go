// Command pcodec is a thin demo of the decompiler core: it wires a
// canned instruction stream through the pipeline and prints the
// rendered pseudocode and cache statistics. It is not the MCP/CLI
// surface a real embedding would expose (SPEC_FULL §6) — just proof the
// wiring works, mirroring the role the teacher's cmd/z80opt plays for
// its own search engine.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/corelift/pcode/pkg/cache"
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func unixNow() int64 { return time.Now().Unix() }

func main() {
	var cacheDir string
	var hashStrategy string
	var workers int
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "pcodec",
		Short: "x86-64 decompiler core — lift, analyze, and render pseudocode",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the pipeline against a built-in sample function and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := parseStrategy(hashStrategy)
			if err != nil {
				return err
			}

			cfg := pipeline.DefaultConfig()
			cfg.HashStrategy = strategy
			cfg.CacheDir = cacheDir
			cfg.MaxWorkers = workers

			logger := diag.NewLogger(buildLogger(verbose))

			c, err := cache.New(cfg.CacheDir, cfg.CacheMemSize)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}

			job := sampleJob()
			res, err := pipeline.Analyze(job, cfg, c, logger, unixNow())
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			fmt.Printf("p-code ops:  %d\n", res.PCodeCount)
			fmt.Printf("blocks:      %d\n", res.BlockCount)
			fmt.Printf("types:       %d\n", res.TypeCount)
			fmt.Printf("loops:       %d\n", res.LoopCount)
			if len(res.Diagnostics) > 0 {
				fmt.Printf("diagnostics:\n")
				for _, d := range res.Diagnostics {
					fmt.Printf("  - %s\n", d)
				}
			}
			fmt.Println()
			fmt.Print(res.ControlStructure)

			mem, disk, dir := c.Stats()
			fmt.Printf("\ncache: %d in memory, %d on disk, dir=%s\n", mem, disk, dir)
			return nil
		},
	}
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "pcodec-cache", "result cache directory")
	analyzeCmd.Flags().StringVar(&hashStrategy, "hash-strategy", "sampling", "fingerprint strategy: metadata|sampling|full")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "batch worker count (0 = runtime.NumCPU())")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "emit diagnostics to stderr")

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the result cache",
	}
	cacheStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cache tier sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.New(cacheDir, pipeline.DefaultConfig().CacheMemSize)
			if err != nil {
				return err
			}
			mem, disk, dir := c.Stats()
			fmt.Printf("memory=%d disk=%d dir=%s\n", mem, disk, dir)
			return nil
		},
	}
	cacheClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty both cache tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.New(cacheDir, pipeline.DefaultConfig().CacheMemSize)
			if err != nil {
				return err
			}
			return c.Clear()
		},
	}
	cacheCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "pcodec-cache", "result cache directory")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)

	rootCmd.AddCommand(analyzeCmd, cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseStrategy(s string) (cache.Strategy, error) {
	switch s {
	case "metadata":
		return cache.Metadata, nil
	case "sampling", "":
		return cache.Sampling, nil
	case "full":
		return cache.Full, nil
	default:
		return cache.Sampling, fmt.Errorf("unknown hash strategy %q", s)
	}
}

func buildLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// sampleJob builds a stand-in function (an indirect caller's worth of
// instructions would come from a real disassembler via decode.Decoder;
// this slice plays that role for the demo): mov rax, 1; add rax, rbx;
// ret.
func sampleJob() pipeline.Job {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{
			Mnemonic: "mov", Address: 0x401000, Length: 7,
			Operands: []decode.Operand{decode.Register(0, 8), decode.Immediate(1, 8)},
		},
		{
			Mnemonic: "add", Address: 0x401007, Length: 3,
			Operands: []decode.Operand{decode.Register(0, 8), decode.Register(3, 8)},
		},
		{Mnemonic: "ret", Address: 0x40100A, Length: 1},
	})
	return pipeline.Job{BaseAddress: 0x401000, Decoder: d}
}
