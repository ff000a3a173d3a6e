package scroller

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

const (
	DefaultRunwayItems         = 50
	DefaultRunwayItemsOpposite = 10
	DefaultRunwayExtraLength   = 800
	ViewportDefaultScrollSize  = 3
)

// ErrInvalidPlaceholder is reported when the placeholder template measures
// zero rows. Scrolling is disabled until a resize produces a usable one.
var ErrInvalidPlaceholder = errors.New("placeholder must be at least one row tall")

// RenderFunc turns an item into an element. recycled, when not nil, is an
// element that used to show another item and may be reused.
type RenderFunc[T any] func(item T, recycled *Element) *Element

// Config holds the tunables of a Model.
type Config struct {
	// Placeholder is cloned to stand in for items that are not loaded yet.
	Placeholder *Element
	// Template, when set, is cloned and handed to the render callback when
	// no element can be recycled.
	Template *Element

	// RunwayItems is the number of items materialized past the viewport in
	// the scroll direction.
	RunwayItems int
	// RunwayItemsOpposite is the number of items materialized past the
	// viewport against the scroll direction.
	RunwayItemsOpposite int
	// RunwayExtraLength is the number of rows the plane can be scrolled
	// beyond the last positioned item.
	RunwayExtraLength int

	WheelStep int
	Scrollbar bool
	KeyMap    KeyMap

	Width, Height int

	parent context.Context
}

// DefaultConfig returns the configuration used by New before options apply.
func DefaultConfig() Config {
	return Config{
		Placeholder:         NewElement(defaultPlaceholder()),
		RunwayItems:         DefaultRunwayItems,
		RunwayItemsOpposite: DefaultRunwayItemsOpposite,
		RunwayExtraLength:   DefaultRunwayExtraLength,
		WheelStep:           ViewportDefaultScrollSize,
		Scrollbar:           true,
		KeyMap:              DefaultKeyMap(),
	}
}

func defaultPlaceholder() string {
	faint := lipgloss.NewStyle().Faint(true)
	return faint.Render("  ░░░░░░░░░░░░░░░░░░░░") + "\n" +
		faint.Render("  ░░░░░░░░░░░░") + "\n"
}

type Option func(*Config)

// WithSize sets the size of the viewport, scrollbar included.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPlaceholder sets the template placeholders are cloned from.
func WithPlaceholder(e *Element) Option {
	return func(c *Config) {
		c.Placeholder = e
	}
}

// WithTemplate sets the element cloned for the render callback when there is
// nothing to recycle.
func WithTemplate(e *Element) Option {
	return func(c *Config) {
		c.Template = e
	}
}

func WithRunwayItems(n int) Option {
	return func(c *Config) {
		c.RunwayItems = n
	}
}

func WithRunwayItemsOpposite(n int) Option {
	return func(c *Config) {
		c.RunwayItemsOpposite = n
	}
}

func WithRunwayExtraLength(n int) Option {
	return func(c *Config) {
		c.RunwayExtraLength = n
	}
}

// WithWheelStep sets the number of rows scrolled per mouse wheel notch.
func WithWheelStep(n int) Option {
	return func(c *Config) {
		c.WheelStep = n
	}
}

func WithScrollbar(enabled bool) Option {
	return func(c *Config) {
		c.Scrollbar = enabled
	}
}

func WithKeyMap(k KeyMap) Option {
	return func(c *Config) {
		c.KeyMap = k
	}
}

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.parent = ctx
	}
}

// Model is an infinite, lazily fetched list. Only the items around the
// viewport are backed by elements; everything else is either a measured
// height or an estimate based on the placeholder.
type Model[T any] struct {
	cfg    Config
	render RenderFunc[T]
	fetch  Fetcher[T]

	ctx    context.Context
	cancel context.CancelFunc

	plane        *Plane
	cache        itemCache[T]
	placeholders *placeholderPool

	placeholderHeight int
	placeholderWidth  int

	anchor          Anchor
	anchorScrollTop int
	attached        AttachRange
	runwayEnd       int

	fetching  bool
	fetches   int
	exhausted bool
	backoff   bool
	lastErr   error
	err       error
	// started is set by Init, ready once a placeholder has been measured
	started bool
	ready   bool
}

// New returns a list that renders items with render and loads them with
// fetch.
func New[T any](render RenderFunc[T], fetch Fetcher[T], opts ...Option) *Model[T] {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Placeholder == nil {
		cfg.Placeholder = NewElement(defaultPlaceholder())
	}
	parent := cfg.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	m := &Model[T]{
		cfg:          cfg,
		render:       render,
		fetch:        fetch,
		ctx:          ctx,
		cancel:       cancel,
		plane:        NewPlane(0, 0),
		placeholders: newPlaceholderPool(cfg.Placeholder),
	}
	return m
}

// Init measures the placeholder and fills the viewport once a size is known.
func (m *Model[T]) Init() tea.Cmd {
	m.started = true
	if m.cfg.Width <= 0 || m.cfg.Height <= 0 {
		return nil
	}
	return m.resize(m.cfg.Width, m.cfg.Height)
}

// Update handles scrolling input and fetch results.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FetchedMsg[T]:
		if msg.owner != m {
			return m, nil
		}
		return m, m.addContent(msg)
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelDown:
			return m, m.ScrollBy(m.cfg.WheelStep)
		case tea.MouseWheelUp:
			return m, m.ScrollBy(-m.cfg.WheelStep)
		}
	case tea.KeyPressMsg:
		km := m.cfg.KeyMap
		switch {
		case key.Matches(msg, km.Down):
			return m, m.ScrollBy(1)
		case key.Matches(msg, km.Up):
			return m, m.ScrollBy(-1)
		case key.Matches(msg, km.HalfPageDown):
			return m, m.ScrollBy(m.plane.Height() / 2)
		case key.Matches(msg, km.HalfPageUp):
			return m, m.ScrollBy(-m.plane.Height() / 2)
		case key.Matches(msg, km.PageDown):
			return m, m.ScrollBy(m.plane.Height())
		case key.Matches(msg, km.PageUp):
			return m, m.ScrollBy(-m.plane.Height())
		case key.Matches(msg, km.Home):
			return m, m.GoToTop()
		case key.Matches(msg, km.End):
			return m, m.GoToBottom()
		}
	}
	return m, nil
}

// SetSize resizes the viewport. The placeholder is measured again and, if the
// width changed, every item is measured again as it gets attached.
func (m *Model[T]) SetSize(width, height int) tea.Cmd {
	m.cfg.Width, m.cfg.Height = width, height
	if !m.started {
		return nil
	}
	return m.resize(width, height)
}

// GetSize returns the size of the viewport, scrollbar included.
func (m *Model[T]) GetSize() (int, int) {
	return m.cfg.Width, m.cfg.Height
}

func (m *Model[T]) planeWidth(width int) int {
	if m.cfg.Scrollbar {
		return max(0, width-1)
	}
	return width
}

func (m *Model[T]) resize(width, height int) tea.Cmd {
	oldWidth, _ := m.plane.Size()
	m.plane.SetSize(m.planeWidth(width), height)

	probe := m.placeholders.template.Clone()
	m.plane.Attach(probe)
	m.placeholderHeight, m.placeholderWidth = m.plane.Measure(probe)
	m.plane.Detach(probe)

	if m.placeholderHeight <= 0 {
		m.err = ErrInvalidPlaceholder
		m.ready = false
		return nil
	}
	m.err = nil
	m.ready = true
	if height <= 0 {
		return nil
	}
	if oldWidth != m.planeWidth(width) {
		m.cache.resetMeasurements()
		m.rerender()
	}
	return m.onScroll()
}

// rerender renders the attached items again so content laid out for the
// previous width is replaced before it is measured.
func (m *Model[T]) rerender() {
	for _, r := range m.cache.records {
		if r.view == nil || !r.hasData {
			continue
		}
		e := m.render(r.data, r.view)
		if e != r.view {
			m.plane.Detach(r.view)
			m.plane.Attach(e)
			r.view = e
		}
		e.placeholder = false
		e.hidden = false
	}
}

// onScroll moves the anchor by however far the plane scrolled since the
// last pass and fills the range around the viewport.
func (m *Model[T]) onScroll() tea.Cmd {
	if !m.scrollable() {
		return nil
	}
	m.backoff = false
	scrollTop := m.plane.ScrollTop()
	delta := scrollTop - m.anchorScrollTop
	if scrollTop == 0 {
		m.anchor = Anchor{}
	} else {
		m.anchor = m.recomputeAnchor(m.anchor, delta)
	}
	m.clampAnchor()
	m.anchorScrollTop = scrollTop

	last := m.recomputeAnchor(m.anchor, m.plane.Height())
	if delta < 0 {
		return m.fill(m.anchor.Index-m.cfg.RunwayItems, last.Index+m.cfg.RunwayItemsOpposite)
	}
	return m.fill(m.anchor.Index-m.cfg.RunwayItemsOpposite, last.Index+m.cfg.RunwayItems)
}

// clampAnchor keeps the anchor inside the loaded items once the list is
// known to be complete.
func (m *Model[T]) clampAnchor() {
	if !m.exhausted || !m.scrollable() {
		return
	}
	limit := m.maxScrollTop()
	if m.anchorTop(m.anchor) <= limit {
		return
	}
	m.anchor = m.recomputeAnchor(Anchor{}, limit)
}

// scrollable reports whether a positive placeholder height is known, which
// every anchor computation divides by.
func (m *Model[T]) scrollable() bool {
	return m.ready && m.err == nil && m.placeholderHeight > 0
}

// contentBottom returns the estimated bottom row of the loaded items.
func (m *Model[T]) contentBottom() int {
	return m.anchorTop(Anchor{Index: m.cache.loaded})
}

func (m *Model[T]) maxScrollTop() int {
	limit := m.plane.MaxScrollTop()
	if m.exhausted {
		limit = min(limit, max(0, m.contentBottom()-m.plane.Height()))
	}
	return limit
}

// ScrollBy scrolls the plane by n rows, negative values scroll up.
func (m *Model[T]) ScrollBy(n int) tea.Cmd {
	if n == 0 {
		return nil
	}
	return m.ScrollTo(m.plane.ScrollTop() + n)
}

// ScrollTo scrolls the plane to an absolute row.
func (m *Model[T]) ScrollTo(top int) tea.Cmd {
	if !m.scrollable() {
		return nil
	}
	m.plane.SetScrollTop(min(top, m.maxScrollTop()))
	return m.onScroll()
}

// GoToTop scrolls back to the first item.
func (m *Model[T]) GoToTop() tea.Cmd {
	return m.ScrollTo(0)
}

// GoToBottom scrolls to the end of the loaded items.
func (m *Model[T]) GoToBottom() tea.Cmd {
	return m.ScrollTo(max(0, m.contentBottom()-m.plane.Height()))
}

// SetRunway changes the runway settings and fills the plane again.
func (m *Model[T]) SetRunway(items, opposite, extra int) tea.Cmd {
	m.cfg.RunwayItems = items
	m.cfg.RunwayItemsOpposite = opposite
	m.cfg.RunwayExtraLength = extra
	if !m.scrollable() {
		return nil
	}
	return m.onScroll()
}

// Close cancels pending and future fetches.
func (m *Model[T]) Close() {
	m.cancel()
}

// Anchor returns the item and offset pinned to the top of the viewport.
func (m *Model[T]) Anchor() Anchor {
	return m.anchor
}

// AttachRange returns the items currently backed by elements.
func (m *Model[T]) AttachRange() AttachRange {
	return m.attached
}

// Len returns the number of logical positions known to the list, loaded or
// not.
func (m *Model[T]) Len() int {
	return m.cache.len()
}

// Loaded returns the number of items with data.
func (m *Model[T]) Loaded() int {
	return m.cache.loaded
}

// RunwayEnd returns the scrollable length of the plane.
func (m *Model[T]) RunwayEnd() int {
	return m.runwayEnd
}

// ScrollTop returns the current scroll offset.
func (m *Model[T]) ScrollTop() int {
	return m.plane.ScrollTop()
}

// PlaceholderSize returns the measured placeholder box.
func (m *Model[T]) PlaceholderSize() (height, width int) {
	return m.placeholderHeight, m.placeholderWidth
}

// Fetches returns the number of fetches issued so far.
func (m *Model[T]) Fetches() int {
	return m.fetches
}

// Fetching reports whether a fetch is in flight.
func (m *Model[T]) Fetching() bool {
	return m.fetching
}

// Exhausted reports whether the fetcher signaled the end of the data.
func (m *Model[T]) Exhausted() bool {
	return m.exhausted
}

// Err returns the configuration error that keeps the list from scrolling.
func (m *Model[T]) Err() error {
	return m.err
}

// LastErr returns the error of the last failed fetch, if the list has not
// loaded anything since.
func (m *Model[T]) LastErr() error {
	return m.lastErr
}

// Item returns the data at index i, if loaded.
func (m *Model[T]) Item(i int) (T, bool) {
	var zero T
	r := m.cache.at(i)
	if r == nil || !r.hasData {
		return zero, false
	}
	return r.data, true
}

// AnchoredItem returns the item at the top of the viewport, if loaded.
func (m *Model[T]) AnchoredItem() (T, bool) {
	return m.Item(m.anchor.Index)
}

// SetWheelStep changes the number of rows scrolled per mouse wheel notch.
func (m *Model[T]) SetWheelStep(n int) {
	m.cfg.WheelStep = max(1, n)
}

// KeyMap returns the scrolling key bindings.
func (m *Model[T]) KeyMap() KeyMap {
	return m.cfg.KeyMap
}
