package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
)

func steppedState(t *testing.T, n, steps int) (*pursuit.State, pursuit.Config) {
	t.Helper()
	cfg := pursuit.Config{BodyCount: n, Radius: 10, Speed: 1, Timestep: 0.1}
	s, err := pursuit.Reinitialize(n, cfg.Radius)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		if _, err := pursuit.Step(s, cfg); err != nil {
			t.Fatal(err)
		}
	}
	return s, cfg
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"csv", CSV, false},
		{" JSON ", JSON, false},
		{"Svg", SVG, false},
		{"png", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("%q: expected ErrUnknownFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	s, _ := steppedState(t, 3, 4)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 1+3*5 {
		t.Fatalf("expected %d rows, got %d", 1+3*5, len(rows))
	}
	if strings.Join(rows[0], ",") != "body,sample,x,y" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "0" || rows[1][1] != "0" || rows[1][2] != "10" || rows[1][3] != "0" {
		t.Errorf("unexpected first row %v", rows[1])
	}
}

func TestWriteJSON(t *testing.T) {
	s, cfg := steppedState(t, 4, 2)
	meta := MetaFor("iterative", cfg)
	meta.Steps = 2

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, s); err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if doc.Meta != meta {
		t.Errorf("meta mismatch: %+v", doc.Meta)
	}
	if len(doc.Paths) != 4 || len(doc.Paths[0]) != 3 {
		t.Fatalf("unexpected path shape")
	}
	last := s.Positions[1]
	got := doc.Paths[1][2]
	if got.X != last.X || got.Y != last.Y {
		t.Errorf("expected %v, got %+v", last, got)
	}
}

func TestWriteSVG(t *testing.T) {
	s, _ := steppedState(t, 5, 10)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s, DefaultSVGOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			if err != io.EOF {
				t.Fatalf("output is not well-formed xml: %v", err)
			}
			break
		}
	}

	if c := strings.Count(out, "<path"); c != 5 {
		t.Errorf("expected 5 paths, got %d", c)
	}
	if c := strings.Count(out, "<line"); c != 5 {
		t.Errorf("expected 5 polygon edges, got %d", c)
	}
	for _, color := range Palette {
		if !strings.Contains(out, color) {
			t.Errorf("missing palette color %s", color)
		}
	}
}

func TestWriteSVGDecimatesLongPaths(t *testing.T) {
	s, _ := steppedState(t, 2, 50)
	opts := DefaultSVGOptions()
	opts.MaxPoints = 10

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s, opts); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, "<path") {
			continue
		}
		if v := strings.Count(line, " L") + 1; v > opts.MaxPoints+1 {
			t.Errorf("expected at most %d vertices, got %d", opts.MaxPoints+1, v)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	s, cfg := steppedState(t, 2, 0)
	err := Write(&bytes.Buffer{}, Format("bmp"), MetaFor("iterative", cfg), s)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
