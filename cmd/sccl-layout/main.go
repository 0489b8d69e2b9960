// Command sccl-layout prints the compiled binding layout of a WGSL compute
// shader: one table per bind group and the descriptor pool sizing.
//
// Usage:
//
//	sccl-layout [flags] shader.wgsl
//
// Buffer kinds default to device-storage and device-uniform. Override single
// bindings with -kinds "0:0=host-storage,1:0=host-uniform".
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/sccl"
	"github.com/gogpu/sccl/layout"
	"github.com/gogpu/sccl/shaderinfo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sccl-layout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		kinds      = fs.String("kinds", "", "per-binding kinds, e.g. 0:0=host-storage,1:0=host-uniform")
		storage    = fs.String("storage", "device-storage", "default kind for storage buffers")
		uniform    = fs.String("uniform", "device-uniform", "default kind for uniform buffers")
		entryPoint = fs.String("entry", sccl.DefaultEntryPoint, "compute entry point")
		spirvOut   = fs.String("spirv", "", "also write SPIR-V to this file")
		verbose    = fs.Bool("v", false, "debug logging to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: sccl-layout [flags] shader.wgsl")
		fs.PrintDefaults()
		return 2
	}

	if *verbose {
		sccl.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := options{
		path:       fs.Arg(0),
		kinds:      *kinds,
		storage:    *storage,
		uniform:    *uniform,
		entryPoint: *entryPoint,
		spirvOut:   *spirvOut,
	}
	if err := describe(opts, stdout); err != nil {
		fmt.Fprintf(stderr, "sccl-layout: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	path       string
	kinds      string
	storage    string
	uniform    string
	entryPoint string
	spirvOut   string
}

func describe(o options, w io.Writer) error {
	src, err := os.ReadFile(o.path)
	if err != nil {
		return err
	}

	info, err := shaderinfo.Reflect(string(src))
	if err != nil {
		return err
	}
	ep, ok := info.EntryPoint(o.entryPoint)
	if !ok {
		return fmt.Errorf("%w: %q", sccl.ErrEntryPointNotFound, o.entryPoint)
	}

	var d shaderinfo.Defaults
	if d.Storage, err = layout.ParseBufferKind(o.storage); err != nil {
		return err
	}
	if d.Uniform, err = layout.ParseBufferKind(o.uniform); err != nil {
		return err
	}
	entries := info.Entries(d)

	overrides, err := parseKinds(o.kinds)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if k, ok := overrides[sccl.BindingPoint{Group: e.Group, Slot: e.Slot}]; ok {
			entries[i].Kind = k
		}
	}
	if err := info.Check(entries); err != nil {
		return err
	}

	res, err := layout.Compile(entries)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "entry point %s, workgroup %dx%dx%d\n", ep.Name, ep.Workgroup[0], ep.Workgroup[1], ep.Workgroup[2])
	printLayouts(w, info, entries, res)
	if len(info.Ignored) > 0 {
		fmt.Fprintf(w, "ignored: %s\n", strings.Join(info.Ignored, ", "))
	}

	if o.spirvOut != "" {
		return writeSPIRV(o.spirvOut, string(src))
	}
	return nil
}

func printLayouts(w io.Writer, info *shaderinfo.Info, entries []layout.BindingEntry, res *layout.Result) {
	names := make(map[sccl.BindingPoint]string, len(info.Bindings))
	for _, b := range info.Bindings {
		names[sccl.BindingPoint{Group: b.Group, Slot: b.Slot}] = b.Name
	}
	kinds := make(map[sccl.BindingPoint]layout.BufferKind, len(entries))
	for _, e := range entries {
		kinds[sccl.BindingPoint{Group: e.Group, Slot: e.Slot}] = e.Kind
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range res.Layouts {
		fmt.Fprintf(tw, "group %d\n", l.Group)
		for _, b := range l.Bindings {
			p := sccl.BindingPoint{Group: l.Group, Slot: b.Slot}
			fmt.Fprintf(tw, "  binding %d\t%s\t%v\t%v\n", b.Slot, names[p], b.Category, kinds[p])
		}
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "pool: storage=%d uniform=%d max_sets=%d\n",
		res.Pool.StorageCount, res.Pool.UniformCount, res.Pool.GroupCount)
}

// parseKinds parses "G:B=kind" pairs separated by commas.
func parseKinds(s string) (map[sccl.BindingPoint]layout.BufferKind, error) {
	out := make(map[sccl.BindingPoint]layout.BufferKind)
	if s == "" {
		return out, nil
	}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		point, name, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("bad -kinds item %q: want G:B=kind", item)
		}
		gs, bs, ok := strings.Cut(point, ":")
		if !ok {
			return nil, fmt.Errorf("bad -kinds item %q: want G:B=kind", item)
		}
		g, err := strconv.ParseUint(gs, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad group in %q: %w", item, err)
		}
		b, err := strconv.ParseUint(bs, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad binding in %q: %w", item, err)
		}
		k, err := layout.ParseBufferKind(name)
		if err != nil {
			return nil, err
		}
		out[sccl.BindingPoint{Group: uint32(g), Slot: uint32(b)}] = k
	}
	return out, nil
}

func writeSPIRV(path, src string) error {
	words, err := shaderinfo.CompileSPIRV(src)
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(words)*4)
	for _, word := range words {
		buf = binary.LittleEndian.AppendUint32(buf, word)
	}
	return os.WriteFile(path, buf, 0o644) //nolint:gosec // output file, not a secret
}
