package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type memStore struct {
	records map[string]Record
	saves   int
	fail    error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]Record)}
}

func (s *memStore) Save(rec Record) error {
	if s.fail != nil {
		return s.fail
	}
	s.saves++
	s.records[rec.ID] = rec
	return nil
}

func (s *memStore) Delete(id string) error {
	delete(s.records, id)
	return nil
}

func (s *memStore) List() ([]Record, error) {
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type echoProgram struct {
	api    WebviewAPI
	boots  *int
	clicks []string
}

func (p *echoProgram) Boot(api WebviewAPI) {
	p.api = api
	if p.boots != nil {
		*p.boots++
	}
	if v, ok := api.GetState(); ok {
		_ = api.PostMessage(map[string]string{"command": v})
	}
}

func (p *echoProgram) Click(action string) {
	p.clicks = append(p.clicks, action)
	p.api.SetState(action)
	_ = p.api.PostMessage(map[string]string{"command": action})
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("panel-%d", n)
	}
}

func scriptOptions() Options {
	return Options{EnableScripts: true, RetainContextWhenHidden: true}
}

func commandsOf(t *testing.T, msgs []Message) []string {
	t.Helper()
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		var body struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal(msg, &body); err != nil {
			t.Fatalf("decode message %q: %v", string(msg), err)
		}
		out = append(out, body.Command)
	}
	return out
}

func TestExecuteCommand(t *testing.T) {
	h := NewLocal()
	calls := 0
	reg := h.RegisterCommand("demo.show", func() { calls++ })
	if err := h.ExecuteCommand("demo.show"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	reg.Dispose()
	err := h.ExecuteCommand("demo.show")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestCommandDisposeKeepsNewerRegistration(t *testing.T) {
	h := NewLocal()
	first := h.RegisterCommand("demo.show", func() {})
	second := 0
	h.RegisterCommand("demo.show", func() { second++ })
	first.Dispose()
	if !h.HasCommand("demo.show") {
		t.Fatalf("expected newer registration to survive")
	}
	if err := h.ExecuteCommand("demo.show"); err != nil || second != 1 {
		t.Fatalf("expected newer handler to run, err=%v calls=%d", err, second)
	}
}

func TestSerializerDisposeUnregisters(t *testing.T) {
	store := newMemStore()
	store.records["a"] = Record{ID: "a", ViewType: "demo", Title: "Demo"}

	h := NewLocal(WithStore(store))
	stale := 0
	first := h.RegisterPanelSerializer("demo", SerializerFunc(func(Panel) error {
		stale++
		return nil
	}))
	revived := 0
	second := h.RegisterPanelSerializer("demo", SerializerFunc(func(Panel) error {
		revived++
		return nil
	}))
	first.Dispose()
	first.Dispose()

	n, err := h.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 1 || revived != 1 || stale != 0 {
		t.Fatalf("expected newer serializer to revive once, got n=%d revived=%d stale=%d", n, revived, stale)
	}

	second.Dispose()
	if _, ok := h.serializers["demo"]; ok {
		t.Fatalf("expected serializer to be unregistered")
	}
}

func TestDisposablesReleaseLIFOOnce(t *testing.T) {
	var order []int
	var d Disposables
	for i := 1; i <= 3; i++ {
		i := i
		d.Push(DisposeFunc(func() { order = append(order, i) }))
	}
	d.Push(nil)
	if d.Len() != 3 {
		t.Fatalf("expected 3 handles, got %d", d.Len())
	}
	d.Dispose()
	d.Dispose()
	if diff := cmp.Diff([]int{3, 2, 1}, order); diff != "" {
		t.Fatalf("unexpected release order (-want +got):\n%s", diff)
	}

	calls := 0
	once := Once(func() { calls++ })
	once.Dispose()
	once.Dispose()
	if calls != 1 {
		t.Fatalf("expected Once to run a single time, got %d", calls)
	}
}

func TestProgramsOnlyRunWithScriptsEnabled(t *testing.T) {
	h := NewLocal(WithIDGenerator(sequentialIDs()))
	boots := 0
	h.RegisterProgram("echo", func() Program { return &echoProgram{boots: &boots} })

	locked := h.CreatePanel("demo", "Demo", ColumnActive, Options{})
	locked.SetDocument(Document{Markup: "<p>x</p>", Program: "echo"})
	if boots != 0 {
		t.Fatalf("expected no boot without EnableScripts, got %d", boots)
	}

	open := h.CreatePanel("demo", "Demo", ColumnActive, scriptOptions())
	open.SetDocument(Document{Markup: "<p>x</p>", Program: "echo"})
	if boots != 1 {
		t.Fatalf("expected one boot, got %d", boots)
	}
	open.SetDocument(Document{Markup: "<p>plain</p>"})
	if boots != 1 {
		t.Fatalf("expected plain document not to boot, got %d", boots)
	}
}

type burstProgram struct {
	api WebviewAPI
}

func (p *burstProgram) Boot(api WebviewAPI) { p.api = api }

func (p *burstProgram) Click(action string) {
	p.api.SetState(action)
	_ = p.api.PostMessage(map[string]string{"command": action + "-1"})
	_ = p.api.PostMessage(map[string]string{"command": action + "-2"})
}

func TestMessagesDeliveredInOrderAfterStep(t *testing.T) {
	h := NewLocal(WithIDGenerator(sequentialIDs()))
	h.RegisterProgram("burst", func() Program { return &burstProgram{} })
	p := h.CreatePanel("demo", "Demo", ColumnActive, scriptOptions()).(*LocalPanel)

	var got []Message
	inHandler := false
	p.OnDidReceiveMessage(func(msg Message) {
		if inHandler {
			t.Fatalf("message delivered while another was being handled")
		}
		inHandler = true
		got = append(got, msg)
		if len(got) == 1 {
			p.SetDocument(Document{Markup: "<p>swapped</p>"})
		}
		inHandler = false
	})
	p.SetDocument(Document{Markup: "<p>x</p>", Program: "burst"})
	p.Click("go")
	if diff := cmp.Diff([]string{"go-1", "go-2"}, commandsOf(t, got)); diff != "" {
		t.Fatalf("unexpected deliveries (-want +got):\n%s", diff)
	}
	if v, _ := p.State(); v != "go" {
		t.Fatalf("expected state go, got %q", v)
	}
	p.Click("ignored")
	if len(got) != 2 {
		t.Fatalf("expected plain document to ignore clicks, got %d messages", len(got))
	}
}

func TestStaleProgramCannotPost(t *testing.T) {
	h := NewLocal()
	var first *echoProgram
	h.RegisterProgram("echo", func() Program {
		prog := &echoProgram{}
		if first == nil {
			first = prog
		}
		return prog
	})
	p := h.CreatePanel("demo", "Demo", ColumnActive, scriptOptions())
	p.SetDocument(Document{Program: "echo"})
	p.SetDocument(Document{Markup: "<p>content</p>"})
	if err := first.api.PostMessage(map[string]string{"command": "x"}); !errors.Is(err, ErrStaleDocument) {
		t.Fatalf("expected ErrStaleDocument, got %v", err)
	}
	p.Dispose()
	if err := first.api.PostMessage(map[string]string{"command": "x"}); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed, got %v", err)
	}
}

func TestDisposeRunsListenersOnceAndForgetsRecord(t *testing.T) {
	store := newMemStore()
	h := NewLocal(WithStore(store), WithIDGenerator(sequentialIDs()))
	first := h.CreatePanel("demo", "First", ColumnActive, scriptOptions())
	second := h.CreatePanel("demo", "Second", ColumnActive, scriptOptions())
	if h.Active() != second {
		t.Fatalf("expected newest panel active")
	}
	calls := 0
	second.OnDidDispose(func() {
		calls++
		second.Dispose()
	})
	second.Dispose()
	second.Dispose()
	if calls != 1 {
		t.Fatalf("expected a single dispose notification, got %d", calls)
	}
	if _, ok := store.records[second.ID()]; ok {
		t.Fatalf("expected record for disposed panel removed")
	}
	if h.Active() != first || !first.Visible() {
		t.Fatalf("expected remaining panel to become active")
	}
	if len(h.Panels()) != 1 {
		t.Fatalf("expected one live panel, got %d", len(h.Panels()))
	}
}

func TestQueuedMessagesDroppedForDisposedPanel(t *testing.T) {
	h := NewLocal()
	p := h.CreatePanel("demo", "Demo", ColumnActive, scriptOptions()).(*LocalPanel)
	delivered := 0
	p.OnDidReceiveMessage(func(Message) { delivered++ })
	h.run(func() {
		api := &webviewAPI{panel: p, generation: p.generation}
		if err := api.PostMessage(map[string]string{"command": "x"}); err != nil {
			t.Fatalf("post: %v", err)
		}
		p.Dispose()
	})
	if delivered != 0 {
		t.Fatalf("expected message to be dropped, got %d deliveries", delivered)
	}
}

func TestRestoreRevivesKnownViewTypes(t *testing.T) {
	store := newMemStore()
	store.records["a"] = Record{
		ID:       "a",
		ViewType: "demo",
		Title:    "Demo",
		Program:  "echo",
		State:    "matrix",
		HasState: true,
	}
	store.records["b"] = Record{ID: "b", ViewType: "other", Title: "Other"}

	h := NewLocal(WithStore(store))
	h.RegisterProgram("echo", func() Program { return &echoProgram{} })
	var got []Message
	h.RegisterPanelSerializer("demo", SerializerFunc(func(p Panel) error {
		p.SetOptions(scriptOptions())
		p.OnDidReceiveMessage(func(msg Message) { got = append(got, msg) })
		return nil
	}))

	n, err := h.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one restored panel, got %d", n)
	}
	if _, ok := store.records["b"]; ok {
		t.Fatalf("expected record without serializer to be discarded")
	}
	if diff := cmp.Diff([]string{"matrix"}, commandsOf(t, got)); diff != "" {
		t.Fatalf("unexpected replay (-want +got):\n%s", diff)
	}
	if active := h.Active(); active == nil || active.ID() != "a" {
		t.Fatalf("expected restored panel active, got %#v", active)
	}
}

func TestRestoreDisposesPanelWhenSerializerFails(t *testing.T) {
	store := newMemStore()
	store.records["a"] = Record{ID: "a", ViewType: "demo"}
	h := NewLocal(WithStore(store))
	h.RegisterPanelSerializer("demo", SerializerFunc(func(Panel) error {
		return errors.New("boom")
	}))
	n, err := h.Restore()
	if err != nil || n != 0 {
		t.Fatalf("expected zero restored without error, got %d, %v", n, err)
	}
	if len(h.Panels()) != 0 || len(store.records) != 0 {
		t.Fatalf("expected failed panel to be removed")
	}
}

func TestStoreFailuresDoNotBreakPanels(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("disk full")
	h := NewLocal(WithStore(store))
	p := h.CreatePanel("demo", "Demo", ColumnActive, scriptOptions())
	p.SetDocument(Document{Markup: "<p>still here</p>"})
	if got := p.Document().Markup; got != "<p>still here</p>" {
		t.Fatalf("expected document applied despite store failure, got %q", got)
	}
}

func TestRevealHookRuns(t *testing.T) {
	h := NewLocal()
	var revealed []string
	h.SetRevealHook(func(p Panel) { revealed = append(revealed, p.ID()) })
	first := h.CreatePanel("demo", "A", ColumnActive, Options{})
	h.CreatePanel("demo", "B", ColumnActive, Options{})
	if first.Visible() {
		t.Fatalf("expected first panel hidden behind the second")
	}
	first.Reveal()
	if !first.Visible() || len(revealed) != 1 || revealed[0] != first.ID() {
		t.Fatalf("expected reveal to focus the first panel, got %v", revealed)
	}
}
