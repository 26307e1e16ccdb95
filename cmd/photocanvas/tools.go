package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/example/photocanvas/internal/config"
	"github.com/example/photocanvas/internal/tool"
)

type toolsCmd struct {
	command
	out io.Writer
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	t := &toolsCmd{command: newCommand(r, "tools"), out: os.Stdout}
	t.fs.Usage = usageFunc(t)
	if err := t.fs.Parse(args); err != nil {
		return nil, err
	}
	return t, nil
}

// Run lists every tool and whether the configuration enables it.
func (t *toolsCmd) Run() error {
	opts := config.Defaults()
	if t.root != nil && t.config != nil {
		var err error
		if opts, err = t.config.Options(); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	for _, k := range tool.Kinds() {
		state := "disabled"
		if opts.ToolEnabled(k) {
			state = "enabled"
		}
		kind := "mode"
		if k.Momentary() {
			kind = "action"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", k, kind, state)
	}
	return tw.Flush()
}
