package cli

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/purple-lines/hypricons/internal/iconlookup"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{input: "", want: OutputFormatText},
		{input: "text", want: OutputFormatText},
		{input: "JSON", want: OutputFormatJSON},
		{input: " json ", want: OutputFormatJSON},
		{input: "yaml", wantErr: true},
		{input: "png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// jsonKeys encodes v through an OutputWriter and returns the sorted keys of
// the resulting object, or of its first element when it is an array.
func jsonKeys(t *testing.T, v any) (string, []string) {
	t.Helper()
	var buf bytes.Buffer
	if err := newOutputWriter(OutputFormatJSON, &buf).Write(v, func() {
		t.Error("text callback used for JSON output")
	}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var raw any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if arr, ok := raw.([]any); ok && len(arr) > 0 {
		raw = arr[0]
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("output %s is not an object", buf.String())
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return buf.String(), keys
}

func TestOutputShapes(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		wantKeys string
	}{
		{
			name: "lookup hit",
			data: []LookupResult{{
				Class:   "org.example.Viewer",
				Indexed: "viewer-icon",
				Path:    "/usr/share/icons/hicolor/scalable/apps/viewer-icon.svg",
				Found:   true,
			}},
			wantKeys: "class,found,indexed_icon,path",
		},
		{
			name:     "lookup miss omits path",
			data:     []LookupResult{{Class: "ghost"}},
			wantKeys: "class,found",
		},
		{
			name: "index",
			data: IndexOutput{
				Entries: []iconlookup.IndexEntry{{Key: "kitty", Icon: "kitty"}},
				Files:   3, Indexed: 2, Skipped: 1,
			},
			wantKeys: "entries,files,indexed,skipped",
		},
		{
			name: "preview",
			data: PreviewOutput{
				Class: "kitty", IconPath: "/icons/kitty.svg", Dir: "/tmp/frames/preview",
				Frames: 42, Duration: "700ms",
			},
			wantKeys: "class,dir,duration,frames,icon_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, keys := jsonKeys(t, tt.data)
			if got := strings.Join(keys, ","); got != tt.wantKeys {
				t.Errorf("keys = %s, want %s", got, tt.wantKeys)
			}
		})
	}
}

func TestOutputIndexEntries(t *testing.T) {
	out, _ := jsonKeys(t, IndexOutput{Entries: []iconlookup.IndexEntry{
		{Key: "org.example.viewer", Icon: "Viewer-Icon"},
	}})
	if !strings.Contains(out, `"key": "org.example.viewer"`) || !strings.Contains(out, `"icon": "Viewer-Icon"`) {
		t.Errorf("entries not encoded as key/icon pairs:\n%s", out)
	}
}

func TestOutputDoesNotEscapeHTML(t *testing.T) {
	out, _ := jsonKeys(t, LookupResult{Class: "Tom&Jerry", Path: "/icons/<odd>.png", Found: true})
	if !strings.Contains(out, "Tom&Jerry") || !strings.Contains(out, "/icons/<odd>.png") {
		t.Errorf("output escaped HTML characters:\n%s", out)
	}
}

func TestOutputWriterText(t *testing.T) {
	var buf bytes.Buffer
	called := false
	err := newOutputWriter(OutputFormatText, &buf).Write(PreviewOutput{Frames: 1}, func() { called = true })
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !called || buf.Len() != 0 {
		t.Errorf("text output: called = %v, wrote %q", called, buf.String())
	}
}
