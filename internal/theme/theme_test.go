package theme

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mapStore struct {
	values         map[string]string
	getErr, setErr error
}

func newMapStore() *mapStore { return &mapStore{values: map[string]string{}} }

func (m *mapStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *mapStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

type recorder struct{ applied []Choice }

func (r *recorder) Apply(c Choice) { r.applied = append(r.applied, c) }

func (r *recorder) last() Choice {
	if len(r.applied) == 0 {
		return ""
	}
	return r.applied[len(r.applied)-1]
}

func TestLoadDefaultsToDevice(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		store Store
	}{
		{"empty", newMapStore()},
		{"nil store", nil},
		{"unavailable", &mapStore{getErr: errors.New("quota exceeded")}},
		{"unknown value", &mapStore{values: map[string]string{StorageKey: "sepia"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			p := Load(ctx, tt.store, rec, nil)
			if p.Current() != Device {
				t.Errorf("Current = %q, want device", p.Current())
			}
			if len(rec.applied) != 1 || rec.applied[0] != Device {
				t.Errorf("applied = %v, want [device]", rec.applied)
			}
		})
	}
}

func TestLoadStoredValue(t *testing.T) {
	store := newMapStore()
	store.values[StorageKey] = "dark"
	rec := &recorder{}
	p := Load(context.Background(), store, rec, nil)
	if p.Current() != Dark || rec.last() != Dark {
		t.Errorf("Current = %q, applied = %v", p.Current(), rec.applied)
	}
}

func TestSwitch(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	rec := &recorder{}
	p := Load(ctx, store, rec, nil)

	for _, c := range []Choice{Dark, Light, Dark, Device, Light} {
		if err := p.Switch(ctx, c); err != nil {
			t.Fatalf("Switch(%q): %v", c, err)
		}
		if p.Current() != c || store.values[StorageKey] != string(c) || rec.last() != c {
			t.Fatalf("after Switch(%q): current=%q stored=%q applied=%q",
				c, p.Current(), store.values[StorageKey], rec.last())
		}
	}
}

func TestSwitchStoreFailure(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	store := &mapStore{values: map[string]string{}, setErr: errors.New("storage disabled")}
	rec := &recorder{}

	var failures []string
	p := Load(ctx, store, rec, zap.New(core), OnStoreError(func(op string, _ error) {
		failures = append(failures, op)
	}))

	if err := p.Switch(ctx, Dark); err != nil {
		t.Fatalf("Switch should swallow store errors, got %v", err)
	}
	if p.Current() != Dark {
		t.Errorf("Current = %q, want dark", p.Current())
	}
	if rec.last() != Dark {
		t.Errorf("applied = %q, want dark", rec.last())
	}
	if len(failures) != 1 || failures[0] != "set" {
		t.Errorf("failures = %v", failures)
	}
	if logs.FilterMessage("theme store unavailable").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestSwitchUnknown(t *testing.T) {
	p := Load(context.Background(), newMapStore(), nil, nil)
	if err := p.Switch(context.Background(), Choice("sepia")); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("err = %v, want ErrUnknownChoice", err)
	}
	if p.Current() != Device {
		t.Errorf("state changed on rejected switch: %q", p.Current())
	}
}

func TestParse(t *testing.T) {
	for _, c := range Choices {
		if got, err := Parse(string(c)); err != nil || got != c {
			t.Errorf("Parse(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := Parse("LIGHT"); err == nil {
		t.Error("Parse should be case-sensitive")
	}
}

func TestApplierFunc(t *testing.T) {
	var got Choice
	p := Load(context.Background(), nil, ApplierFunc(func(c Choice) { got = c }), nil)
	_ = p.Switch(context.Background(), Light)
	if got != Light {
		t.Errorf("ApplierFunc got %q", got)
	}
}
