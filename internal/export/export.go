// Package export writes pursuit trajectories as CSV, JSON or SVG.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// Format names an output encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	SVG  Format = "svg"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case CSV, JSON, SVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Meta describes the run that produced a trajectory.
type Meta struct {
	Mode     string  `json:"mode"`
	Bodies   int     `json:"bodies"`
	Radius   float64 `json:"radius"`
	Speed    float64 `json:"speed"`
	Timestep float64 `json:"timestep"`
	Steps    int     `json:"steps"`
	Time     float64 `json:"time"`
}

// MetaFor fills the configuration fields of a Meta.
func MetaFor(mode string, cfg pursuit.Config) Meta {
	return Meta{
		Mode:     mode,
		Bodies:   cfg.BodyCount,
		Radius:   cfg.Radius,
		Speed:    cfg.Speed,
		Timestep: cfg.Timestep,
	}
}

// Write encodes s in the given format.
func Write(w io.Writer, f Format, meta Meta, s *pursuit.State) error {
	switch f {
	case CSV:
		return WriteCSV(w, s)
	case JSON:
		return WriteJSON(w, meta, s)
	case SVG:
		return WriteSVG(w, s, DefaultSVGOptions())
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteCSV writes one row per history sample: body,sample,x,y.
func WriteCSV(w io.Writer, s *pursuit.State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"body", "sample", "x", "y"}); err != nil {
		return err
	}
	for i, path := range s.History {
		body := strconv.Itoa(i)
		for k, p := range path {
			row := []string{
				body,
				strconv.Itoa(k),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Document is the JSON form of an exported run.
type Document struct {
	Meta  Meta      `json:"meta"`
	Paths [][]point `json:"paths"`
}

func WriteJSON(w io.Writer, meta Meta, s *pursuit.State) error {
	doc := Document{Meta: meta, Paths: make([][]point, len(s.History))}
	for i, path := range s.History {
		doc.Paths[i] = make([]point, len(path))
		for k, p := range path {
			doc.Paths[i][k] = point{X: p.X, Y: p.Y}
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
