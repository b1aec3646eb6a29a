// Package parser reads circuits in the ISCAS85/89 BENCH format into a
// circuit.Graph, and provides small companion helpers for resolving
// fault-site strings and writing test vectors back out.
package parser

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fyerfyer/gatpg/pkg/circuit"
	"github.com/fyerfyer/gatpg/pkg/value"
)

var (
	inputRegex  = regexp.MustCompile(`^INPUT\((\w+)\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\((\w+)\)$`)
	gateRegex   = regexp.MustCompile(`^(\w+)\s*=\s*(\w+)\((.+)\)$`)
)

type gateLine struct {
	output string
	typ    string
	inputs []string
}

// ParseBenchFile reads filename in BENCH format and returns a finalized
// circuit.Graph. DFF(...) lines (ISCAS89 sequential convention) register
// a DFF-output pseudo-input immediately available to downstream gates and
// a corresponding DFF-input sink fed by the named driver.
func ParseBenchFile(filename string) (*circuit.Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("parser: open %s: %w", filename, err)
	}
	defer f.Close()

	var inputs []string
	outputs := make(map[string]bool)
	dffs := make(map[string]string) // dff output name -> driver name
	var gates []gateLine

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := inputRegex.FindStringSubmatch(line); m != nil {
			inputs = append(inputs, m[1])
			continue
		}
		if m := outputRegex.FindStringSubmatch(line); m != nil {
			outputs[m[1]] = true
			continue
		}
		if m := gateRegex.FindStringSubmatch(line); m != nil {
			typ := strings.ToUpper(m[2])
			args := splitArgs(m[3])
			if typ == "DFF" {
				if len(args) != 1 {
					return nil, fmt.Errorf("parser: DFF(%s) wants exactly one driver", m[3])
				}
				dffs[m[1]] = args[0]
				continue
			}
			gates = append(gates, gateLine{output: m[1], typ: typ, inputs: args})
			continue
		}
		return nil, fmt.Errorf("parser: unrecognized line: %q", line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parser: reading %s: %w", filename, err)
	}

	b := circuit.NewBuilder()
	ids := make(map[string]int)

	for _, name := range inputs {
		ids[name] = b.AddInput(name)
	}
	for name := range dffs {
		ids[name] = b.AddDffOutput(name)
	}
	for _, g := range gates {
		fanin := make([]int, len(g.inputs))
		for i, in := range g.inputs {
			id, ok := ids[in]
			if !ok {
				return nil, fmt.Errorf("parser: %s references undefined line %q (BENCH file must be topologically ordered)", g.output, in)
			}
			fanin[i] = id
		}
		gt, err := parseGateType(g.typ)
		if err != nil {
			return nil, err
		}
		ids[g.output] = b.AddGate(g.output, gt, fanin...)
	}
	for name := range outputs {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("parser: OUTPUT(%s) references undefined line", name)
		}
		b.MarkOutput(id)
	}
	for name, driver := range dffs {
		driverID, ok := ids[driver]
		if !ok {
			return nil, fmt.Errorf("parser: DFF(%s) references undefined driver %q", name, driver)
		}
		b.AddDffInput(name+"$D", driverID, ids[name])
	}

	return b.Finalize()
}

func splitArgs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func parseGateType(s string) (circuit.GateType, error) {
	switch s {
	case "AND":
		return circuit.And, nil
	case "OR":
		return circuit.Or, nil
	case "NOT", "INV":
		return circuit.Not, nil
	case "NAND":
		return circuit.Nand, nil
	case "NOR":
		return circuit.Nor, nil
	case "XOR":
		return circuit.Xor, nil
	case "XNOR":
		return circuit.Xnor, nil
	case "BUF", "BUFF":
		return circuit.Buf, nil
	default:
		return 0, fmt.Errorf("parser: unsupported gate type %q", s)
	}
}

// ParseFaultSite parses a "name/0" or "name/1" fault-site string against
// the given graph, returning the node id and stuck value.
func ParseFaultSite(spec string, g *circuit.Graph) (int, value.Value3, error) {
	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return 0, value.VX, fmt.Errorf("parser: invalid fault site %q", spec)
	}
	var stuck value.Value3
	switch parts[1] {
	case "0":
		stuck = value.V0
	case "1":
		stuck = value.V1
	default:
		return 0, value.VX, fmt.Errorf("parser: invalid stuck value in %q", spec)
	}
	for i := 0; i < g.NodeNum(); i++ {
		if g.Node(i).Name == parts[0] {
			return i, stuck, nil
		}
	}
	return 0, value.VX, fmt.Errorf("parser: no line named %q", parts[0])
}

// WriteTestVectors writes a header comment giving the vector count, then
// each vector as a "# vector N" comment line followed by its BinString.
func WriteTestVectors(filename string, vectors []*value.TestVector) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("parser: create %s: %w", filename, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "# %d test vectors\n", len(vectors))
	for i, tv := range vectors {
		fmt.Fprintf(w, "# vector %d\n%s\n", i+1, tv.BinString())
	}
	return nil
}
