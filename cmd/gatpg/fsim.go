package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/fsim"
	"github.com/fyerfyer/gatpg/pkg/fsimnet"
	"github.com/fyerfyer/gatpg/pkg/parser"
	"github.com/fyerfyer/gatpg/pkg/value"
	"github.com/spf13/cobra"
)

var fsimCmd = &cobra.Command{
	Use:   "fsim",
	Args:  cobra.NoArgs,
	Short: "Fault-simulate a pattern file against a circuit's fault list",
	RunE:  runFsim,
}

func init() {
	fsimCmd.Flags().String("netlist", "", "path to a BENCH-format netlist (required)")
	fsimCmd.Flags().String("patterns", "", "path to a newline-separated PI[:DFF] BinString pattern file (required)")
}

func runFsim(cmd *cobra.Command, args []string) error {
	netlistPath, _ := cmd.Flags().GetString("netlist")
	patternsPath, _ := cmd.Flags().GetString("patterns")
	if netlistPath == "" || patternsPath == "" {
		return fmt.Errorf("--netlist and --patterns flags are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	g, err := parser.ParseBenchFile(netlistPath)
	if err != nil {
		return fmt.Errorf("failed to parse netlist: %w", err)
	}
	model, err := fault.Build(g, cfg.Fault.TransitionDelay)
	if err != nil {
		return fmt.Errorf("failed to build fault list: %w", err)
	}
	log.WithField("faults", len(model.FaultList())).Info("fault list built")

	tvs, err := readPatterns(patternsPath, g)
	if err != nil {
		return fmt.Errorf("failed to read patterns: %w", err)
	}
	log.WithField("patterns", len(tvs)).Info("patterns loaded")

	net := fsimnet.NewNetwork(g)
	status := fault.NewStatusRegistry(len(model.FaultList()))
	pool := fsim.NewParallel(net, model, status, cfg.Fsim.Workers)
	defer pool.Shutdown()

	allIDs := make([]int, len(model.FaultList()))
	for i := range allIDs {
		allIDs[i] = i
	}

	for start := 0; start < len(tvs); start += cfg.Fsim.PatternBatch {
		end := start + cfg.Fsim.PatternBatch
		if end > len(tvs) {
			end = len(tvs)
		}
		_, detect := pool.RunPPSFP(tvs[start:end], allIDs)
		for fid, mask := range detect {
			if mask != 0 {
				status.Set(fid, fault.Detected)
			}
		}
	}

	undetected, detected, untestable, aborted := status.Counts()
	total := detected + untestable + aborted + undetected
	fmt.Printf("detected=%d undetected=%d untestable=%d aborted=%d coverage=%.2f%%\n",
		detected, undetected, untestable, aborted, 100*float64(detected)/float64(total))
	return nil
}

func readPatterns(path string, g interface{ PPIList() []int }) ([]*value.TestVector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPPI := len(g.PPIList())
	var out []*value.TestVector
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		line = strings.ReplaceAll(line, ":", "")
		bv, err := value.FromBinString(line)
		if err != nil {
			return nil, err
		}
		if bv.Len() != numPPI {
			return nil, fmt.Errorf("pattern width %d does not match circuit PPI width %d", bv.Len(), numPPI)
		}
		tv := value.NewTestVector(numPPI, 0, false)
		for i := 0; i < numPPI; i++ {
			tv.PI.Set(i, bv.Get(i))
		}
		out = append(out, tv)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
