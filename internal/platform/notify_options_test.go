package platform

import (
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if o.appName() != "PhotoCanvas" {
		t.Fatalf("appName = %q", o.appName())
	}
	if o.expire() != -1 {
		t.Fatalf("expire = %d, want -1", o.expire())
	}
	o = Options{AppName: "x", Timeout: 2 * time.Second}
	if o.appName() != "x" || o.expire() != 2000 {
		t.Fatalf("unexpected %q %d", o.appName(), o.expire())
	}
}

func TestOptionsHints(t *testing.T) {
	if h := (Options{}).hints(); len(h) != 0 {
		t.Fatalf("hints = %v", h)
	}
	if h := (Options{Category: "transfer.complete"}).hints(); h["category"] != "transfer.complete" {
		t.Fatalf("hints = %v", h)
	}
}
