// Package header generates the build configuration header that every unit
// includes ahead of its own sources.
package header

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

var headerTemplate = template.Must(template.New("header").Parse(`#pragma once

/*-----------------------------------------------------------------------------
 * auto generated by cbuild - all changes will be overwritten on build
 *----------------------------------------------------------------------------*/
{{ if .Includes }}
{{ range .Includes }}#include {{ . }}
{{ end }}{{ end }}
{{ range .Defines }}// {{ .Comment }}
#define {{ .Name }}{{ if .Value }} {{ .Value }}{{ end }}

{{ end }}{{ if .Conflicts }}/*-----------------------------------------------------------------------------
 * definition conflict checker
 *----------------------------------------------------------------------------*/

{{ range .Conflicts }}#if defined({{ index . 0 }}) && defined({{ index . 1 }})
#	error "{{ index . 0 }} and {{ index . 1 }} are both enabled; only 1 can be used at a time"
#endif
{{ end }}{{ end }}`))

type define struct {
	Comment string
	Name    string
	Value   string
}

type headerData struct {
	Includes  []string
	Defines   []define
	Conflicts [][2]string
}

// Writer implements ports.HeaderWriter.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Render returns the header content for the given mode and enabled options.
func (w *Writer) Render(spec domain.HeaderSpec, mode domain.BuildMode, options domain.OptionSet) ([]byte, error) {
	data := headerData{Conflicts: options.Conflicts}
	for _, inc := range spec.Includes {
		data.Includes = append(data.Includes, includeTarget(inc))
	}
	for _, v := range options.Values {
		d := define{Comment: v.Option.Description, Name: v.Option.DefineName()}
		if d.Comment == "" {
			d.Comment = "enables " + v.Option.Name
		}
		if v.Option.Kind == domain.OptionString {
			d.Value = `"` + strings.ReplaceAll(v.Value, `"`, `\"`) + `"`
		}
		data.Defines = append(data.Defines, d)
	}
	if mode == domain.ModeDebug {
		data.Defines = append(data.Defines, define{Comment: "debug build", Name: "_DEBUG", Value: "1"})
	}

	var buf bytes.Buffer
	if err := headerTemplate.Execute(&buf, data); err != nil {
		return nil, zerr.Wrap(err, "failed to render configuration header")
	}
	return buf.Bytes(), nil
}

// Write renders the header and writes it to spec.Path unless the file already
// has identical content, keeping its modification time stable.
// It reports whether the file changed.
func (w *Writer) Write(spec domain.HeaderSpec, mode domain.BuildMode, options domain.OptionSet) (bool, error) {
	if spec.Path == "" {
		return false, nil
	}

	content, err := w.Render(spec, mode, options)
	if err != nil {
		return false, err
	}

	// #nosec G304 -- path comes from the project file
	if existing, err := os.ReadFile(spec.Path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(spec.Path), domain.DirPerm); err != nil {
		return false, zerr.With(errors.Join(domain.ErrHeaderWriteFailed, err), "path", spec.Path)
	}
	if err := os.WriteFile(spec.Path, content, domain.FilePerm); err != nil {
		return false, zerr.With(errors.Join(domain.ErrHeaderWriteFailed, err), "path", spec.Path)
	}
	return true, nil
}

// includeTarget wraps a bare header name in angle brackets.
func includeTarget(inc string) string {
	if strings.HasPrefix(inc, "<") || strings.HasPrefix(inc, `"`) {
		return inc
	}
	return "<" + inc + ">"
}
