package main

import (
	"fmt"

	"github.com/fyerfyer/gatpg/pkg/dtpg"
	"github.com/fyerfyer/gatpg/pkg/fault"
	"github.com/fyerfyer/gatpg/pkg/parser"
	"github.com/fyerfyer/gatpg/pkg/value"
	"github.com/spf13/cobra"
)

var dtpgCmd = &cobra.Command{
	Use:   "dtpg",
	Args:  cobra.NoArgs,
	Short: "Generate test patterns for a circuit's fault list",
	RunE:  runDtpg,
}

func init() {
	dtpgCmd.Flags().String("netlist", "", "path to a BENCH-format netlist (required)")
	dtpgCmd.Flags().String("fault", "", "generate a test for a single fault site (e.g. G17/0) instead of the whole list")
	dtpgCmd.Flags().String("out", "", "write generated test vectors to this file")
}

func runDtpg(cmd *cobra.Command, args []string) error {
	netlistPath, _ := cmd.Flags().GetString("netlist")
	if netlistPath == "" {
		return fmt.Errorf("--netlist flag is required")
	}
	faultSite, _ := cmd.Flags().GetString("fault")
	outPath, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	g, err := parser.ParseBenchFile(netlistPath)
	if err != nil {
		return fmt.Errorf("failed to parse netlist: %w", err)
	}
	log.WithField("nodes", g.NodeNum()).Info("netlist loaded")

	model, err := fault.Build(g, cfg.Fault.TransitionDelay)
	if err != nil {
		return fmt.Errorf("failed to build fault list: %w", err)
	}
	log.WithField("faults", len(model.FaultList())).Info("fault list built")

	engine := dtpg.NewEngine(g, model)

	if faultSite != "" {
		id, stuck, err := parser.ParseFaultSite(faultSite, g)
		if err != nil {
			return err
		}
		var target *fault.Fault
		for _, f := range model.FaultList() {
			if f.Origin == id && f.StuckValue == stuck && f.Site == fault.Stem {
				target = f
				break
			}
		}
		if target == nil {
			return fmt.Errorf("no stem fault found for site %s", faultSite)
		}
		outcome := engine.GenerateTest(target)
		fmt.Printf("fault %s: %s\n", faultSite, outcome.State)
		if outcome.Vector != nil {
			fmt.Println(outcome.Vector.BinString())
		}
		return nil
	}

	status := fault.NewStatusRegistry(len(model.FaultList()))
	outcomes := engine.GenerateAll(status)

	var vectors []*value.TestVector
	for id, o := range outcomes {
		switch o.State {
		case dtpg.Sat:
			status.Set(id, fault.Detected)
			vectors = append(vectors, o.Vector)
		case dtpg.Unsat:
			status.Set(id, fault.Untestable)
		case dtpg.Abort:
			status.Set(id, fault.Aborted)
		}
	}

	undetected, detected, untestable, aborted := status.Counts()
	fmt.Printf("detected=%d untestable=%d aborted=%d undetected=%d\n", detected, untestable, aborted, undetected)

	if outPath != "" {
		if err := parser.WriteTestVectors(outPath, vectors); err != nil {
			return fmt.Errorf("failed to write test vectors: %w", err)
		}
	}
	return nil
}
