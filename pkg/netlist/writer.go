package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/graph"
)

// Write renders a snapshot as a netlist that Parse reads back. Nodes are
// named after their solver node id, ground is "0". Ids that do not start with
// their kind's prefix get it prepended.
func Write(w io.Writer, title string, components []device.Component, wires []device.Wire) error {
	bw := bufio.NewWriter(w)
	nodes := graph.Build(components, wires)

	fmt.Fprintf(bw, "* %s\n", title)
	for i, c := range components {
		if !c.Kind.Valid() {
			return fmt.Errorf("component %s: invalid kind %d", c.ID, int(c.Kind))
		}

		name := c.ID
		if k, ok := kindByPrefix(name); !ok || k != c.Kind {
			name = c.Kind.Prefix() + "_" + c.ID
		}

		n1, n2 := nodes.Terminals(i)
		fmt.Fprintf(bw, "%s %s %s", name, nodeName(n1), nodeName(n2))
		switch {
		case c.Kind == device.Switch && c.Open:
			fmt.Fprint(bw, " open")
		case c.Kind == device.Switch:
			fmt.Fprint(bw, " closed")
		case c.Kind.Unit() != "":
			fmt.Fprintf(bw, " %s", strconv.FormatFloat(c.Value, 'g', -1, 64))
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw, ".op")
	fmt.Fprintln(bw, ".end")

	return bw.Flush()
}

func nodeName(id int) string {
	if id == graph.Ground {
		return "0"
	}
	return "n" + strconv.Itoa(id)
}
