package datastructure

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bcmobility/roadnet/pkg/util"
	"github.com/dsnet/compress/bzip2"
)

// graph files are bzip2-compressed, line oriented, tab separated. Floats are
// written with strconv.FormatFloat(v, 'f', -1, 64) so every cost field and
// coordinate round-trips bit exact.

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatGeometry(pl Polyline) string {
	var sb strings.Builder
	for i, p := range pl {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(formatF(p.x))
		sb.WriteByte(',')
		sb.WriteString(formatF(p.y))
	}
	return sb.String()
}

func parseGeometry(s string) (Polyline, error) {
	if s == "" {
		return Polyline{}, nil
	}
	parts := strings.Split(s, ";")
	pl := make(Polyline, 0, len(parts))
	for _, part := range parts {
		xy := strings.SplitN(part, ",", 2)
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed geometry point %q", part)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, err
		}
		pl = append(pl, NewPoint(x, y))
	}
	return pl, nil
}

func formatExtra(extra map[string]string) string {
	if len(extra) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(extra))
	for k, v := range extra {
		pairs = append(pairs, k+"="+v)
	}
	// map order is random, sort for a reproducible file
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

func parseExtra(s string) map[string]string {
	if s == "-" || s == "" {
		return nil
	}
	extra := make(map[string]string)
	for _, pair := range strings.Split(s, "&") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			extra[kv[0]] = kv[1]
		}
	}
	return extra
}

func (g *RoadGraph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)
	defer w.Flush()

	fmt.Fprintf(w, "%d\t%d\n", len(g.nodes), len(g.edges))

	for _, n := range g.nodes {
		fmt.Fprintf(w, "%d\t%s\t%s\n", n.id, formatF(n.x), formatF(n.y))
	}

	for _, e := range g.edges {
		ferry := 0
		if e.meta.Ferry {
			ferry = 1
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.from, e.to, e.key,
			formatF(e.lengthM), formatF(e.speedKPH), formatF(e.travelTimeMin),
			ferry,
			e.meta.RoadClass, e.meta.PavSurf, e.meta.PavStatus, e.meta.TrafficDir,
			formatGeometry(e.geometry), formatExtra(e.meta.Extra))
	}

	return nil
}

func ReadGraph(filename string) (*RoadGraph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	sc := bufio.NewScanner(bz)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, util.WrapErrorf(sc.Err(), util.ErrBadParamInput, "graph file %s is empty", filename)
	}
	var numNodes, numEdges int
	if _, err := fmt.Sscanf(sc.Text(), "%d\t%d", &numNodes, &numEdges); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "bad graph header")
	}

	nodes := make([]*Node, 0, numNodes)
	for i := 0; i < numNodes; i++ {
		if !sc.Scan() {
			return nil, util.WrapErrorf(sc.Err(), util.ErrBadParamInput, "truncated node section")
		}
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != 3 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "bad node line %q", sc.Text())
		}
		id, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, err
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, NewNode(Index(id), x, y))
	}

	edges := make([]*Edge, 0, numEdges)
	for i := 0; i < numEdges; i++ {
		if !sc.Scan() {
			return nil, util.WrapErrorf(sc.Err(), util.ErrBadParamInput, "truncated edge section")
		}
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != 13 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "bad edge line %q", sc.Text())
		}

		from, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, err
		}
		to, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, err
		}
		length, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, err
		}
		speed, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, err
		}
		travelTime, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, err
		}
		geometry, err := parseGeometry(fields[11])
		if err != nil {
			return nil, err
		}

		meta := EdgeMeta{
			RoadClass:  fields[7],
			PavSurf:    fields[8],
			PavStatus:  fields[9],
			TrafficDir: fields[10],
			Ferry:      fields[6] == "1",
			Extra:      parseExtra(fields[12]),
		}
		edges = append(edges, NewEdge(Index(from), Index(to), geometry, length, speed, travelTime, meta))
	}

	g, err := BuildRoadGraph(nodes, edges)
	if err != nil {
		return nil, err
	}
	g.Freeze()
	return g, nil
}
