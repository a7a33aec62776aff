package host

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrUnknownCommand is returned when executing a command id nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// ViewColumn selects where a new panel is placed.
type ViewColumn int

const (
	ColumnActive ViewColumn = -1
	ColumnBeside ViewColumn = -2
	ColumnOne    ViewColumn = 1
)

// Options is the capability set of a panel's embedded UI.
type Options struct {
	EnableScripts           bool     `json:"enableScripts"`
	RetainContextWhenHidden bool     `json:"retainContextWhenHidden"`
	LocalResourceRoots      []string `json:"localResourceRoots,omitempty"`
}

// Document is what a panel renders. Program names an embedded program that
// runs while the document is loaded; plain content leaves it empty.
type Document struct {
	Markup  string
	Program string
}

// Message is a JSON payload posted by an embedded program to its controller.
type Message json.RawMessage

// Host is the minimum surface extension code needs.
type Host interface {
	RegisterCommand(id string, fn func()) Disposable
	CreatePanel(viewType, title string, column ViewColumn, opts Options) Panel
}

// Serializer revives a panel of a registered view type after a restart.
type Serializer interface {
	DeserializePanel(p Panel) error
}

// SerializerFunc adapts a function to Serializer.
type SerializerFunc func(Panel) error

func (f SerializerFunc) DeserializePanel(p Panel) error {
	return f(p)
}

// SerializerHost is implemented by hosts that can persist panels across
// restarts.
type SerializerHost interface {
	RegisterPanelSerializer(viewType string, s Serializer) Disposable
}

// Panel is a live display surface.
type Panel interface {
	ID() string
	ViewType() string
	Title() string
	Options() Options
	SetOptions(Options)
	Document() Document
	SetDocument(Document)
	Reveal()
	Visible() bool
	OnDidReceiveMessage(fn func(Message)) Disposable
	OnDidDispose(fn func()) Disposable
	Dispose()
}

// WebviewAPI is what an embedded program can reach: its own durable state
// slot and the message channel to the controller.
type WebviewAPI interface {
	GetState() (string, bool)
	SetState(value string)
	PostMessage(v interface{}) error
}

// Program is the behaviour attached to a document.
type Program interface {
	Boot(api WebviewAPI)
	Click(action string)
}

// ProgramFactory creates a fresh program instance for every document load.
type ProgramFactory func() Program

// Record is the persisted form of a panel.
type Record struct {
	ID        string
	ViewType  string
	Title     string
	Markup    string
	Program   string
	State     string
	HasState  bool
	Options   Options
	UpdatedAt time.Time
}

// Store persists panel records.
type Store interface {
	Save(rec Record) error
	Delete(id string) error
	List() ([]Record, error)
}
