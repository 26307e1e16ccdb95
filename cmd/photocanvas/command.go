package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/photocanvas/internal/config"
)

// command is the part every subcommand shares: the root settings and its
// own flag set.
type command struct {
	*root
	fs   *flag.FlagSet
	name string
}

func newCommand(r *root, name string) command {
	return command{root: r, fs: flag.NewFlagSet(name, flag.ContinueOnError), name: name}
}

func (c command) Program() string {
	if c.root == nil {
		return "photocanvas " + c.name
	}
	return c.root.program + " " + c.name
}

func (c command) FlagSet() *flag.FlagSet { return c.fs }

// pairsFlag collects repeated -set key=value options.
type pairsFlag [][2]string

func (p *pairsFlag) String() string {
	parts := make([]string, 0, len(*p))
	for _, kv := range *p {
		parts = append(parts, kv[0]+"="+kv[1])
	}
	return strings.Join(parts, ",")
}

func (p *pairsFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	*p = append(*p, [2]string{strings.TrimSpace(key), strings.TrimSpace(value)})
	return nil
}

// parseToolList reads "pan,zoom,-crop": a bare name enables the tool, a
// leading minus disables it.
func parseToolList(list string, ov *config.Overrides) error {
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		enabled := true
		if name, ok := strings.CutPrefix(item, "-"); ok {
			item, enabled = name, false
		}
		if err := ov.Set("tools."+item, strconv.FormatBool(enabled)); err != nil {
			return err
		}
		if _, unknown := ov.Extra["tools."+strings.ToLower(item)]; unknown {
			return fmt.Errorf("unknown tool %q", item)
		}
	}
	return nil
}
