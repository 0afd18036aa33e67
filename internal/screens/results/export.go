package results

import (
	"errors"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/report"
	"github.com/abhisek/examiz/internal/ui/components"
)

type exportedMsg struct {
	Path string
	Err  error
}

// defaultExportPath is the prompt's prefilled value.
func (s *ResultsScreen) defaultExportPath() string {
	name := report.DefaultFileName(report.FormatPDF)
	if s.deps.ExportDir == "" {
		return name
	}
	return filepath.Join(s.deps.ExportDir, name)
}

func (s *ResultsScreen) openExport() tea.Cmd {
	s.mode = modeExport
	s.export = components.NewTextInput(s.defaultExportPath(), s.defaultExportPath(), 48)
	return s.export.Init()
}

// resolveExportPath applies the defaults to what was typed: empty means
// the default file, a path without an extension gets .pdf, and relative
// paths land in the export directory.
func (s *ResultsScreen) resolveExportPath(typed string) string {
	path := strings.TrimSpace(typed)
	if path == "" {
		return s.defaultExportPath()
	}
	if filepath.Ext(path) == "" {
		path += "." + report.FormatPDF.Ext()
	}
	if !filepath.IsAbs(path) && s.deps.ExportDir != "" && !strings.HasPrefix(path, s.deps.ExportDir) {
		path = filepath.Join(s.deps.ExportDir, path)
	}
	return path
}

func (s *ResultsScreen) handleExportKey(msg tea.KeyMsg) (*ResultsScreen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeSummary
		return s, nil
	case "enter":
		if s.exporting {
			return s, nil
		}
		return s, s.save(s.resolveExportPath(s.export.Value()))
	}
	var cmd tea.Cmd
	s.export, cmd = s.export.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) save(path string) tea.Cmd {
	s.exporting = true
	return tea.Batch(s.spinner.Tick, s.writeReport(path))
}

// writeReport picks the format from the extension and writes the file.
func (s *ResultsScreen) writeReport(path string) tea.Cmd {
	in := report.FromSnapshot(s.snap, s.result)
	return func() tea.Msg {
		f, err := report.FormatFromPath(path)
		if err != nil {
			return exportedMsg{Path: path, Err: err}
		}
		return exportedMsg{Path: path, Err: report.WriteFile(path, f, in)}
	}
}

func (s *ResultsScreen) handleExported(msg exportedMsg) (*ResultsScreen, tea.Cmd) {
	s.exporting = false
	if msg.Err != nil {
		s.log.Error("export report", zap.String("path", msg.Path), zap.Error(msg.Err))
		text := "Could not save the report."
		if errors.Is(msg.Err, report.ErrUnknownFormat) {
			text = "Unknown file type. Use .pdf, .md or .json."
		}
		s.export.Submit(errors.New(text), "")
		return s, nil
	}

	s.log.Info("report exported", zap.String("path", msg.Path))
	s.mode = modeSummary
	s.notice = "Report saved to " + msg.Path
	return s, nil
}
