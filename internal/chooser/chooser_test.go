package chooser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeAPI struct {
	state    string
	hasState bool
	posted   []string
	log      []string
}

func (f *fakeAPI) GetState() (string, bool) {
	return f.state, f.hasState
}

func (f *fakeAPI) SetState(v string) {
	f.state = v
	f.hasState = true
	f.log = append(f.log, "set:"+v)
}

func (f *fakeAPI) PostMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.posted = append(f.posted, string(data))
	f.log = append(f.log, "post:"+string(data))
	return nil
}

func TestRenderListsEveryBackground(t *testing.T) {
	doc, err := Render("Satisfying Background", DefaultCatalog())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Program != ProgramName {
		t.Fatalf("expected program %q, got %q", ProgramName, doc.Program)
	}
	for _, e := range DefaultCatalog() {
		button := `<button data-select="` + e.Key + `">` + e.Label + `</button>`
		if !strings.Contains(doc.Markup, button) {
			t.Fatalf("expected %s in chooser markup", button)
		}
	}
	if !strings.Contains(doc.Markup, "Select background") || !strings.Contains(doc.Markup, "Credit") {
		t.Fatalf("expected headings in chooser markup")
	}
	if strings.Contains(doc.Markup, "Falling Text:") {
		t.Fatalf("expected entries without credit to be skipped in the credit list")
	}
}

func TestRenderEscapesLabels(t *testing.T) {
	doc, err := Render("T", Catalog{{Key: `a"b`, Label: "<b>bold</b>"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(doc.Markup, "<b>bold</b>") {
		t.Fatalf("expected label to be escaped: %s", doc.Markup)
	}
}

func TestClickStoresBeforePosting(t *testing.T) {
	api := &fakeAPI{}
	p := &Program{}
	p.Boot(api)
	if len(api.posted) != 0 {
		t.Fatalf("expected no replay without saved state")
	}
	p.Click("matrix")
	want := []string{"set:matrix", `post:{"command":"matrix"}`}
	if diff := cmp.Diff(want, api.log); diff != "" {
		t.Fatalf("unexpected call order (-want +got):\n%s", diff)
	}
}

func TestBootReplaysSavedSelectionOnce(t *testing.T) {
	api := &fakeAPI{state: "maze", hasState: true}
	NewProgram().Boot(api)
	if diff := cmp.Diff([]string{`{"command":"maze"}`}, api.posted); diff != "" {
		t.Fatalf("unexpected replay (-want +got):\n%s", diff)
	}
}

func TestEmptyKeysAreIgnored(t *testing.T) {
	api := &fakeAPI{state: "", hasState: true}
	p := &Program{}
	p.Boot(api)
	p.Click("")
	if len(api.log) != 0 {
		t.Fatalf("expected empty keys to be ignored, got %v", api.log)
	}
	(&Program{}).Click("matrix")
}

func TestCatalogHelpers(t *testing.T) {
	c := DefaultCatalog()
	if len(c.Keys()) != 8 || c.Keys()[3] != "matrix" {
		t.Fatalf("unexpected keys %v", c.Keys())
	}
	if e, ok := c.Lookup("orbit"); !ok || e.Label != "Orbit" {
		t.Fatalf("expected orbit entry, got %#v", e)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Fatalf("expected missing lookup to fail")
	}
	if e, _ := c.Lookup("kotakPutar"); e.Credit != "still Not found, sorry" {
		t.Fatalf("unexpected kotakPutar credit %q", e.Credit)
	}
}

func TestLoadCatalogFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `backgrounds:
  - key: matrix
    label: Green Rain
    credit: " someone "
  - key: custom
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Catalog{
		{Key: "matrix", Label: "Green Rain", Credit: "someone"},
		{Key: "custom", Label: "custom"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected catalog (-want +got):\n%s", diff)
	}
}

func TestLoadCatalogDefaultsAndErrors(t *testing.T) {
	got, err := LoadCatalog("  ")
	if err != nil || len(got) != len(DefaultCatalog()) {
		t.Fatalf("expected default catalog, got %d entries, %v", len(got), err)
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml": "backgrounds: []\n",
		"nokey.yaml": "backgrounds:\n  - label: x\n",
		"dup.yaml":   "backgrounds:\n  - key: a\n  - key: a\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCatalog(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
