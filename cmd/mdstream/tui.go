// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	tuiFooterStyle = lipgloss.NewStyle().Faint(true)
)

// chunkMsg carries a span of rendered output appended to the live view.
type chunkMsg string

// doneMsg signals the source (stdin read loop or file watch) finished.
type doneMsg struct{ err error }

// chanWriter turns every Write into a chunkMsg delivered on the channel, so
// a render.AnsiRenderer (or any io.Writer-driven renderer) can feed a
// running tea.Program the same way it would feed a terminal directly.
type chanWriter chan tea.Msg

func (w chanWriter) Write(p []byte) (int, error) {
	w <- chunkMsg(string(p))
	return len(p), nil
}

// streamModel is the interactive display grounded on the teacher's
// DiffReviewModel (services/code_buddy/tui/diff_model.go): a spinner while
// waiting on the next chunk, and a scrollable viewport holding everything
// rendered so far. Unlike the teacher's model it never asks the user for a
// decision — mdstream has nothing to accept or reject, only to display.
type streamModel struct {
	title   string
	msgs    chan tea.Msg
	spin    spinner.Model
	vp      viewport.Model
	content string
	ready   bool
	waiting bool
	done    bool
	err     error
}

func newStreamModel(title string, msgs chan tea.Msg) streamModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return streamModel{title: title, msgs: msgs, spin: s, waiting: true}
}

func waitForMsg(msgs chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-msgs
	}
}

func (m streamModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForMsg(m.msgs))
}

func (m streamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		vertical := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView())
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-vertical)
			m.vp.SetContent(m.content)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - vertical
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case chunkMsg:
		m.waiting = false
		m.content += string(msg)
		if m.ready {
			m.vp.SetContent(m.content)
			m.vp.GotoBottom()
		}
		return m, waitForMsg(m.msgs)

	case doneMsg:
		m.done = true
		m.err = msg.err
		m.waiting = false
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m streamModel) View() string {
	if !m.ready {
		return "\n  initializing...\n"
	}
	return m.headerView() + "\n" + m.vp.View() + "\n" + m.footerView()
}

func (m streamModel) headerView() string {
	status := "streaming"
	switch {
	case m.done && m.err != nil:
		status = fmt.Sprintf("error: %v", m.err)
	case m.done:
		status = "done"
	case m.waiting:
		status = m.spin.View() + " waiting"
	}
	return tuiHeaderStyle.Render(fmt.Sprintf(" %s — %s ", m.title, status))
}

func (m streamModel) footerView() string {
	return tuiFooterStyle.Render(" q to quit · ↑/↓ j/k to scroll ")
}

// runTUI starts a tea.Program showing title and content pushed onto msgs by
// produce, which runs on its own goroutine and must close msgs (or send a
// doneMsg) when the source is exhausted.
func runTUI(title string, produce func(msgs chan tea.Msg)) error {
	msgs := make(chan tea.Msg)
	go produce(msgs)

	p := tea.NewProgram(newStreamModel(title, msgs))
	_, err := p.Run()
	return err
}
