package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/tamarack-ui/tamarack/internal/config"
	"github.com/tamarack-ui/tamarack/internal/network"
	"github.com/tamarack-ui/tamarack/internal/source"
	"github.com/tamarack-ui/tamarack/internal/tui/exp/scroller"
	"github.com/tamarack-ui/tamarack/internal/tui/feed"
	"github.com/tamarack-ui/tamarack/internal/tui/styles"
	"github.com/tamarack-ui/tamarack/internal/tui/util"
)

const defaultStatusTTL = 3 * time.Second

type clearStatusMsg struct {
	id int
}

// appModel is the entry browser: the infinite list, a status bar and a help
// line.
type appModel struct {
	ctx    context.Context
	cfg    *config.Config
	name   string
	pager  *source.Pager
	render *feed.Renderer
	list   *scroller.Model[source.Entry]

	spinner  spinner.Model
	spinning bool
	help     help.Model
	keyMap   KeyMap

	width, height int

	status   util.InfoMsg
	statusID int

	watch bool
}

type Option func(*appModel)

// WithConfigWatch reloads the scroller settings when the config files
// change.
func WithConfigWatch(enabled bool) Option {
	return func(a *appModel) {
		a.watch = enabled
	}
}

// New returns the browser for src. name is shown in the status bar.
func New(ctx context.Context, cfg *config.Config, src source.Source, name string, opts ...Option) util.Model {
	t := styles.CurrentTheme().S()
	a := &appModel{
		ctx:    ctx,
		cfg:    cfg,
		name:   name,
		pager:  source.NewPager(src),
		render: feed.New(feed.WithMarkdown(cfg.Options.Markdown)),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(t.Spinner),
		),
		help:   help.New(),
		keyMap: DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(a)
	}

	s := cfg.Scroller
	a.list = scroller.New(
		a.render.Render,
		Fetcher(a.pager),
		scroller.WithContext(ctx),
		scroller.WithPlaceholder(feed.Placeholder(s.PlaceholderLines)),
		scroller.WithRunwayItems(s.RunwayItems),
		scroller.WithRunwayItemsOpposite(s.RunwayItemsOpposite),
		scroller.WithRunwayExtraLength(s.RunwayExtraLength),
		scroller.WithWheelStep(s.WheelStep),
		scroller.WithScrollbar(!s.HideScrollbar),
		scroller.WithKeyMap(a.keyMap.List),
	)
	return a
}

// Fetcher adapts a pager to the list, translating the end of the source.
func Fetcher(p *source.Pager) scroller.Fetcher[source.Entry] {
	return func(ctx context.Context, count int) ([]source.Entry, error) {
		entries, err := p.Next(ctx, count)
		if errors.Is(err, source.ErrEndOfData) {
			err = fmt.Errorf("%w: %w", scroller.ErrEndOfData, err)
		}
		return entries, err
	}
}

func (a *appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{a.list.Init()}
	if a.watch {
		ch, err := a.cfg.Watch(a.ctx)
		if err != nil {
			slog.Warn("Config changes will not be applied", "error", err)
		} else {
			cmds = append(cmds, listenForReload(ch))
		}
	}
	return tea.Batch(cmds...)
}

func listenForReload(ch <-chan config.ReloadedMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{msg: msg, ch: ch}
	}
}

type reloadMsg struct {
	msg config.ReloadedMsg
	ch  <-chan config.ReloadedMsg
}

func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, tea.Batch(a.layout(), a.spin())
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, a.keyMap.Quit):
			a.list.Close()
			return a, tea.Quit
		case key.Matches(msg, a.keyMap.Copy):
			return a, a.copyAnchored()
		case key.Matches(msg, a.keyMap.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, tea.Batch(a.layout(), a.spin())
		}
	case util.InfoMsg:
		a.statusID++
		a.status = msg
		ttl := msg.TTL
		if ttl <= 0 {
			ttl = defaultStatusTTL
		}
		id := a.statusID
		return a, tea.Tick(ttl, func(time.Time) tea.Msg {
			return clearStatusMsg{id: id}
		})
	case clearStatusMsg:
		if msg.id == a.statusID {
			a.status = util.InfoMsg{}
		}
		return a, nil
	case reloadMsg:
		return a, tea.Batch(a.applyConfig(msg.msg), listenForReload(msg.ch))
	case spinner.TickMsg:
		if !a.list.Fetching() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	_, cmd := a.list.Update(msg)
	return a, tea.Batch(cmd, a.spin())
}

// spin starts the spinner when a fetch is in flight.
func (a *appModel) spin() tea.Cmd {
	if !a.list.Fetching() || a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *appModel) applyConfig(msg config.ReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		return util.ReportError(msg.Err)
	}
	a.cfg = msg.Config
	s := a.cfg.Scroller
	a.list.SetWheelStep(s.WheelStep)
	a.render.SetMarkdown(a.cfg.Options.Markdown)
	slog.Info("Applying config", "runway_items", s.RunwayItems, "runway_items_opposite", s.RunwayItemsOpposite, "runway_extra_length", s.RunwayExtraLength)
	return tea.Batch(
		a.list.SetRunway(s.RunwayItems, s.RunwayItemsOpposite, s.RunwayExtraLength),
		util.ReportInfo("Config reloaded"),
	)
}

func (a *appModel) copyAnchored() tea.Cmd {
	entry, ok := a.list.AnchoredItem()
	if !ok {
		return util.ReportWarn("Nothing to copy yet")
	}
	text := entry.Title
	if body := strings.TrimSpace(entry.Body); body != "" {
		text += "\n\n" + body
	}
	return tea.Sequence(
		tea.SetClipboard(text),
		func() tea.Msg {
			if err := clipboard.WriteAll(text); err != nil {
				slog.Debug("System clipboard unavailable", "error", err)
			}
			return nil
		},
		util.ReportInfo("Entry copied to clipboard"),
	)
}

func (a *appModel) helpView() string {
	return a.help.View(a.keyMap)
}

// layout gives the list whatever the status bar and help leave.
func (a *appModel) layout() tea.Cmd {
	if a.width <= 0 || a.height <= 0 {
		return nil
	}
	listHeight := util.Clamp(a.height-1-lipgloss.Height(a.helpView()), 0, a.height)
	listWidth := a.width
	if !a.cfg.Scroller.HideScrollbar {
		listWidth--
	}
	a.render.SetWidth(max(0, listWidth))
	return a.list.SetSize(a.width, listHeight)
}

func (a *appModel) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	lines := strings.Split(a.helpView(), "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, a.width, "…")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.list.View(),
		a.statusView(),
		strings.Join(lines, "\n"),
	)
}

func (a *appModel) statusView() string {
	t := styles.CurrentTheme().S()
	anchor := a.list.Anchor()
	attached := a.list.AttachRange()

	field := func(k, v string) string {
		return t.StatusKey.Render(" "+k+" ") + t.StatusValue.Render(v)
	}
	left := field("source", a.name) +
		field("at", fmt.Sprintf("#%d+%d", anchor.Index+1, anchor.Offset)) +
		field("loaded", strconv.Itoa(a.list.Loaded())) +
		field("attached", fmt.Sprintf("%d-%d", attached.First, attached.Last))

	switch {
	case a.list.Err() != nil:
		left += t.StatusError.Render(" " + a.list.Err().Error())
	case a.list.Fetching():
		left += t.StatusBar.Render(" ") + a.spinner.View() + t.StatusKey.Render(" loading")
	case a.list.LastErr() != nil:
		left += t.StatusError.Render(" " + network.Describe(a.list.LastErr()))
	case a.list.Exhausted():
		left += t.StatusKey.Render(" end")
	}

	right := ""
	if a.status.Msg != "" {
		style := t.StatusInfo
		switch a.status.Type {
		case util.InfoTypeWarn:
			style = t.StatusWarn
		case util.InfoTypeError:
			style = t.StatusError
		}
		right = style.Render(a.status.Msg + " ")
	}

	gap := max(0, a.width-lipgloss.Width(left)-lipgloss.Width(right))
	return ansi.Truncate(left+t.StatusBar.Render(strings.Repeat(" ", gap))+right, a.width, "…")
}
