package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/ui/style"
)

// Configure writes the configuration header without building.
func (a *App) Configure(_ context.Context, s domain.Settings) error {
	a.applySettings(s)

	sess, err := a.load(s)
	if err != nil {
		return err
	}
	if sess.project.Header.Path == "" {
		a.logger.Warn("no header path configured in " + domain.ProjectFileName)
		return nil
	}

	changed, err := a.writeHeader(sess)
	if err != nil {
		return err
	}
	if !changed {
		a.logger.Notice("configuration header is up to date")
	}
	return nil
}

// ListOptions prints the declared build options and whether each one is
// enabled under the given settings.
func (a *App) ListOptions(_ context.Context, s domain.Settings) error {
	a.applySettings(s)

	sess, err := a.load(s)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(sess.project.Options)+1)
	rows = append(rows, []string{"DEBUG", "_DEBUG", "bool", onOff(sess.mode == domain.ModeDebug), "follows the build mode"})
	for _, opt := range sess.project.Options {
		state := "off"
		if v, ok := sess.options.Lookup(opt.Name); ok {
			state = "on"
			if opt.Kind == domain.OptionString {
				state = v
			}
		}
		desc := opt.Description
		if len(opt.Conflicts) > 0 {
			desc = strings.TrimSpace(desc + " (conflicts: " + strings.Join(opt.Conflicts, ", ") + ")")
		}
		rows = append(rows, []string{opt.Name, opt.DefineName(), string(opt.Kind), state, desc})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Bold(true).Foreground(style.Iris)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("OPTION", "DEFINE", "KIND", "VALUE", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err = fmt.Fprintln(a.out, t.String())
	return err
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
