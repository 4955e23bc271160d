// Package tui renders a storefront page in the terminal.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

type focusArea int

const (
	focusSearch focusArea = iota
	focusCategory
	focusSubcategory
	focusSort
	focusCount
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	focusedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	blurredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	messageStyle  = lipgloss.NewStyle().Padding(1, 2)
	errorStyle    = messageStyle.Foreground(lipgloss.Color("196"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	nameStyle     = lipgloss.NewStyle().Bold(true)
	listPrice     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	promoPrice    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	selectorStyle = lipgloss.NewStyle().Padding(0, 1)
)

// loadedMsg reports that the page fetch resolved
type loadedMsg struct{ err error }

// Model is the bubbletea model of a mounted storefront page
type Model struct {
	page   *catalog.Page
	search textinput.Model
	focus  focusArea
	width  int
}

// New builds a model over an unmounted page. Init mounts it.
func New(page *catalog.Page) Model {
	ti := textinput.New()
	ti.Prompt = "🔍 "
	ti.Placeholder = "Buscar productos..."
	ti.CharLimit = 80
	ti.Width = 40
	ti.SetValue(page.Header().SearchTerm())
	ti.Focus()

	return Model{page: page, search: ti, focus: focusSearch, width: 80}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, mount(m.page))
}

func mount(page *catalog.Page) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: page.MountAndWait(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.page.Unmount()
			return m, tea.Quit
		case "q":
			if m.focus != focusSearch {
				m.page.Unmount()
				return m, tea.Quit
			}
		case "tab":
			m = m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab":
			m = m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil
		case "ctrl+r":
			m.page.Header().Reset()
			m.search.SetValue(m.page.Header().SearchTerm())
			return m, nil
		case "left", "right":
			if m.focus != focusSearch {
				delta := 1
				if msg.String() == "left" {
					delta = -1
				}
				m.step(delta)
				return m, nil
			}
		}
	}

	if m.focus != focusSearch {
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.page.Header().SearchTerm() {
		m.page.Header().Search(m.search.Value())
	}
	return m, cmd
}

func (m Model) setFocus(f focusArea) Model {
	m.focus = f
	if f == focusSearch {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
	return m
}

// step moves the focused selector by delta and applies it to the page
func (m *Model) step(delta int) {
	selection := m.page.Selection()
	criteria := selection.Criteria()
	options := m.page.Categories()

	switch m.focus {
	case focusCategory:
		names := []string{catalog.All}
		for _, o := range options {
			names = append(names, o.Name)
		}
		selection.SelectCategory(cycle(names, criteria.Category, delta))
	case focusSubcategory:
		if criteria.Category == catalog.All {
			return
		}
		subs := append([]string{catalog.All}, catalog.Subcategories(options, criteria.Category)...)
		selection.SelectSubcategory(cycle(subs, criteria.Subcategory, delta))
	case focusSort:
		sorts := catalog.SortOptions()
		i := slices.Index(sorts, criteria.Sort)
		selection.SetSort(sorts[wrap(i+delta, len(sorts))])
	}
	// narrowing clears the shared search term
	m.search.SetValue(m.page.Header().SearchTerm())
}

func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[wrap(i+delta, len(options))]
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (m Model) View() string {
	view := m.page.View()
	criteria := view.Criteria

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tienda"))
	b.WriteString("  ")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	selectors := []string{
		m.selector(focusCategory, "Categoría", displayAll(criteria.Category)),
		m.selector(focusSubcategory, "Subcategoría", displayAll(criteria.Subcategory)),
		m.selector(focusSort, "Orden", criteria.Sort.Label()),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, selectors...))
	b.WriteString("\n")

	switch view.Status {
	case catalog.StatusLoading, catalog.StatusEmpty:
		b.WriteString(messageStyle.Render(view.Message))
	case catalog.StatusError:
		b.WriteString(errorStyle.Render(view.Message))
	default:
		b.WriteString(renderGrid(view.Products, m.width))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: cambiar foco • ←/→: elegir • ctrl+r: limpiar filtros • esc: salir"))
	return b.String()
}

func (m Model) selector(area focusArea, label, value string) string {
	style := blurredStyle
	if m.focus == area {
		style = focusedStyle
	}
	return selectorStyle.Render(style.Render(fmt.Sprintf("%s: ‹ %s ›", label, value)))
}

func displayAll(v string) string {
	if v == catalog.All || v == "" {
		return "Todo"
	}
	return v
}

// columns follows the grid breakpoints: one column, two from 60 cells, three from 100
func columns(width int) int {
	switch {
	case width >= 100:
		return 3
	case width >= 60:
		return 2
	default:
		return 1
	}
}

func renderGrid(cards []models.Card, width int) string {
	cols := columns(width)
	cardWidth := max(width/cols-2, 20)

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		rendered := make([]string, 0, cols)
		for _, c := range cards[start:end] {
			rendered = append(rendered, renderCard(c, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(c models.Card, width int) string {
	var price string
	if c.IsDiscounted {
		price = fmt.Sprintf("%s %s%s",
			listPrice.Render(fmt.Sprintf("$%.2f", c.Price)),
			promoPrice.Render(fmt.Sprintf("$%.2f", c.EffectivePrice)),
			c.UnitLabel)
	} else {
		price = fmt.Sprintf("$%.2f%s", c.EffectivePrice, c.UnitLabel)
	}

	category := c.Category
	if c.Subcategory != nil && *c.Subcategory != "" {
		category += " › " + *c.Subcategory
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(c.Name),
		price,
		dimStyle.Render(category),
		dimStyle.Render(c.ImageURL),
	)
	return cardStyle.Width(width).Render(body)
}
