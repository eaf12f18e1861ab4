package factory

import (
	"strings"
	"testing"
	"time"
)

type sample struct{ Path string }

type sampleConf struct {
	Path    string        `json:"path"`
	Timeout time.Duration `json:"timeout"`
	Rotate  int           `json:"rotate"`
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("jsonl", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{Path: c.Path}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "JSONL", Conf: map[string]any{"path": "runs.jsonl"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Path != "runs.jsonl" {
		t.Fatalf("expected runs.jsonl got %s", inst.Path)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("sqlite", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("sqlite", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("nop", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	_, err := reg.Create(ModuleConfig{Type: "postgres"})
	if err == nil || !strings.Contains(err.Error(), "sqlite") {
		t.Fatalf("expected unknown type error listing known types, got %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"sqlite", "jsonl", "nop"} {
		if err := reg.Register(n, func(map[string]any) (int, error) { return 0, nil }); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}
	got := strings.Join(reg.Names(), ",")
	if got != "jsonl,nop,sqlite" {
		t.Fatalf("unexpected names %s", got)
	}
}

func TestDecode_WeakTypes(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"timeout": "1m30s", "rotate": "3"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Timeout != 90*time.Second || c.Rotate != 3 {
		t.Fatalf("unexpected decode result %+v", c)
	}
}
