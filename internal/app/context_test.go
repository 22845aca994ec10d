package app

import (
	"errors"
	"io"
	"testing"

	"golang.org/x/text/language"

	"github.com/dshills/appshell/internal/locale"
	"github.com/dshills/appshell/internal/store"
)

func quietLogger() *Logger {
	return NewLogger(LoggerConfig{Level: LogLevelError, Output: io.Discard})
}

func newRoot(opts ...Option) *Context {
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestNew_Root(t *testing.T) {
	root := newRoot()

	if root.Parent() != nil {
		t.Error("root Parent() != nil")
	}
	if root.ID() == "" {
		t.Error("root ID is empty")
	}
	if items := root.Settings(); len(items) != 0 {
		t.Errorf("fresh root Settings() = %v, want empty", items)
	}
}

func TestNewChild_NilParentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewChild(nil) did not panic")
		}
	}()
	NewChild(nil)
}

func TestNewChild_Wiring(t *testing.T) {
	root := newRoot()
	child := NewChild(root)

	if child.Parent() != root {
		t.Error("child Parent() != root")
	}
	if child.ID() == root.ID() {
		t.Error("child shares the root's ID")
	}
}

func TestContext_SettingsIsolation(t *testing.T) {
	root := newRoot()
	root.AddSettings(map[string]any{"lang": "en"})

	child := NewChild(root)
	child.AddSettings(map[string]any{"lang": "fr"})

	if got := root.Settings()["lang"]; got != "en" {
		t.Errorf("root lang = %v, want en", got)
	}
	if got := child.Settings()["lang"]; got != "fr" {
		t.Errorf("child lang = %v, want fr", got)
	}

	sibling := NewChild(root)
	if got := sibling.Settings()["lang"]; got != "en" {
		t.Errorf("sibling lang = %v, want en (inherited, not fr)", got)
	}
}

func TestContext_SettingsInheritDeepChain(t *testing.T) {
	root := newRoot()
	root.AddSettings(map[string]any{"a": "root", "b": "root"})

	mid := NewChild(root)
	mid.AddSettings(map[string]any{"b": "mid", "c": "mid"})

	leaf := NewChild(mid)
	leaf.AddSettings(map[string]any{"c": "leaf"})

	got := leaf.Settings()
	if got["a"] != "root" || got["b"] != "mid" || got["c"] != "leaf" {
		t.Errorf("leaf Settings() = %v", got)
	}
}

func TestContext_Setting(t *testing.T) {
	root := newRoot()
	root.AddSettings(map[string]any{"ui": map[string]any{"theme": "dark"}})

	child := NewChild(root)
	if v, ok := child.Setting("ui.theme"); !ok || v != "dark" {
		t.Errorf("Setting(ui.theme) = %v, %v", v, ok)
	}
}

func TestContext_SharedBus(t *testing.T) {
	root := newRoot()
	child := NewChild(root)
	grandchild := NewChild(child)

	var log []any
	if err := root.Listen("PING", func(p any) error {
		log = append(log, p)
		return nil
	}); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	// Child to root.
	if err := child.Notify("PING", 42); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(log) != 1 || log[0] != 42 {
		t.Fatalf("log = %v, want [42]", log)
	}

	// Root to grandchild: same flat bus, no bubbling direction.
	var fromRoot []any
	grandchild.Listen("PONG", func(p any) error {
		fromRoot = append(fromRoot, p)
		return nil
	})
	if err := root.Notify("PONG", "down"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(fromRoot) != 1 || fromRoot[0] != "down" {
		t.Errorf("fromRoot = %v, want [down]", fromRoot)
	}
}

func TestContext_NotifyUnknownEventIsNoop(t *testing.T) {
	root := newRoot()

	if err := root.Notify("nobody.listens", struct{}{}); err != nil {
		t.Errorf("Notify with no listeners = %v, want nil", err)
	}
}

func TestContext_ObjectStoreDelegation(t *testing.T) {
	root := newRoot()

	if err := root.PersistObject("score", 9000); err != nil {
		t.Fatalf("PersistObject failed: %v", err)
	}

	// The store is shared: a child retrieves what the root persisted.
	child := NewChild(root)
	v, err := child.RetrieveObject("score")
	if err != nil {
		t.Fatalf("RetrieveObject failed: %v", err)
	}
	if v != 9000 {
		t.Errorf("RetrieveObject = %v, want 9000", v)
	}

	if err := child.RemoveObject("score"); err != nil {
		t.Fatalf("RemoveObject failed: %v", err)
	}
	if _, err := root.RetrieveObject("score"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("RetrieveObject after remove = %v, want ErrNotFound", err)
	}
	if err := root.RemoveObject("score"); err != nil {
		t.Errorf("RemoveObject of absent key = %v, want nil", err)
	}
}

func TestContext_CustomObjectStore(t *testing.T) {
	mem := store.NewMemory()
	root := newRoot(WithObjectStore(mem))

	root.PersistObject("k", "v")
	if _, err := mem.Retrieve("k"); err != nil {
		t.Errorf("custom store did not receive the object: %v", err)
	}
}

func TestContext_LocaleDelegationAndEvent(t *testing.T) {
	loc := locale.New(
		locale.WithSupported(language.English, language.French),
		locale.WithDefault(language.English),
	)
	root := newRoot(WithLocalizer(loc))
	child := NewChild(root)

	var changes []any
	child.Listen(EventLocaleChanged, func(p any) error {
		changes = append(changes, p)
		return nil
	})

	if err := root.SetLanguage("fr"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if got := child.Language(); got != language.French {
		t.Errorf("Language() = %v, want fr", got)
	}
	if len(changes) != 1 || changes[0] != "fr" {
		t.Errorf("locale.changed payloads = %v, want [fr]", changes)
	}

	root.ClearLanguage()
	if got := root.Language(); got != language.English {
		t.Errorf("Language() after Clear = %v, want en", got)
	}
	if len(changes) != 2 || changes[1] != "en" {
		t.Errorf("locale.changed payloads = %v, want [fr en]", changes)
	}
}

func TestContext_LoadChildren(t *testing.T) {
	root := newRoot()

	var constructed []*Context
	factory := func(parent *Context) error {
		constructed = append(constructed, parent)
		child := NewChild(parent)
		return child.Listen("child.ready", func(any) error { return nil })
	}

	if err := root.LoadChildren(map[string]ChildFactory{"widget": factory}); err != nil {
		t.Fatalf("LoadChildren failed: %v", err)
	}

	if len(constructed) != 1 {
		t.Fatalf("factory called %d times, want 1", len(constructed))
	}
	if constructed[0] != root {
		t.Error("factory did not receive the loading context as parent")
	}
}

func TestContext_LoadChildren_FactoryErrorPropagates(t *testing.T) {
	root := newRoot()

	boom := errors.New("construction failed")
	err := root.LoadChildren(map[string]ChildFactory{
		"broken": func(*Context) error { return boom },
	})

	if !errors.Is(err, boom) {
		t.Errorf("LoadChildren = %v, want wrapped boom", err)
	}
}

func TestContext_LoadChildren_NilFactory(t *testing.T) {
	root := newRoot()

	err := root.LoadChildren(map[string]ChildFactory{"nil": nil})
	if !errors.Is(err, ErrNilFactory) {
		t.Errorf("LoadChildren = %v, want ErrNilFactory", err)
	}
}

func TestContext_ChildrenRegisterListenersDuringConstruction(t *testing.T) {
	root := newRoot()

	received := make(map[string]any)
	err := root.LoadChildren(map[string]ChildFactory{
		"a": func(parent *Context) error {
			c := NewChild(parent)
			return c.Listen("broadcast", func(p any) error {
				received["a"] = p
				return nil
			})
		},
		"b": func(parent *Context) error {
			c := NewChild(parent)
			return c.Listen("broadcast", func(p any) error {
				received["b"] = p
				return nil
			})
		},
	})
	if err != nil {
		t.Fatalf("LoadChildren failed: %v", err)
	}

	if err := root.Notify("broadcast", "hello"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if received["a"] != "hello" || received["b"] != "hello" {
		t.Errorf("received = %v, want both children to hear the broadcast", received)
	}
}
