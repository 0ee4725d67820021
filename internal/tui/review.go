// Package tui provides the interactive review UI for plans awaiting approval.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
)

// reviewView identifies which page of the review UI is showing.
type reviewView int

const (
	viewPlans reviewView = iota
	viewOperations
)

// Messages passed back into Update by the data commands.
type (
	plansLoadedMsg struct{ plans []*primary.Plan }

	opsLoadedMsg struct {
		plan *primary.Plan
		ops  []*primary.PlanOperation
	}

	actionDoneMsg struct {
		planID string
		action string
	}

	errMsg struct{ err error }
)

// ReviewModel drives the interactive review of plans awaiting approval.
type ReviewModel struct {
	plans primary.PlanService

	view   reviewView
	width  int
	height int

	planTable table.Model
	opTable   table.Model

	// Data
	pending []*primary.Plan // plans in review or special handling
	current *primary.Plan   // plan whose operations are showing

	status string
	styles Styles
}

// NewReviewModel creates a review UI over the given plan service.
func NewReviewModel(plans primary.PlanService) ReviewModel {
	planTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 14},
			{Title: "Category", Width: 22},
			{Title: "Status", Width: 22},
			{Title: "Ops", Width: 5},
			{Title: "Created", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	opTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Seq", Width: 4},
			{Title: "Kind", Width: 14},
			{Title: "Source", Width: 28},
			{Title: "Target", Width: 32},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return ReviewModel{
		plans:     plans,
		planTable: planTable,
		opTable:   opTable,
		styles:    DefaultStyles(),
	}
}

// Init loads the plans awaiting approval.
func (m ReviewModel) Init() tea.Cmd {
	return m.loadPlans
}

// Update handles messages.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case plansLoadedMsg:
		m.pending = msg.plans
		m.updatePlanRows()
		return m, nil

	case opsLoadedMsg:
		m.current = msg.plan
		m.updateOpRows(msg.ops)
		m.view = viewOperations
		return m, nil

	case actionDoneMsg:
		m.status = fmt.Sprintf("✓ Plan %s %s", msg.planID, msg.action)
		m.view = viewPlans
		m.current = nil
		return m, m.loadPlans

	case errMsg:
		m.status = "✗ " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.view == viewOperations {
				m.view = viewPlans
				m.current = nil
				return m, nil
			}
			return m, tea.Quit
		case "r":
			if m.view == viewPlans {
				m.status = ""
				return m, m.loadPlans
			}
		case "enter":
			if m.view == viewPlans {
				if plan := m.selectedPlan(); plan != nil {
					return m, m.loadOperations(plan)
				}
			}
		case "a":
			if plan := m.actionTarget(); plan != nil {
				return m, m.approve(plan.ID)
			}
		case "d":
			if plan := m.actionTarget(); plan != nil {
				return m, m.remove(plan.ID)
			}
		}
	}

	var cmd tea.Cmd
	if m.view == viewOperations {
		m.opTable, cmd = m.opTable.Update(msg)
	} else {
		m.planTable, cmd = m.planTable.Update(msg)
	}
	return m, cmd
}

// View renders the current page.
func (m ReviewModel) View() string {
	var sb strings.Builder

	title := " Plan Review "
	if m.view == viewOperations && m.current != nil {
		title = fmt.Sprintf(" Plan %s (%s) ", m.current.ID, m.current.Category)
	}
	sb.WriteString(m.styles.Header.Render(title) + "\n\n")

	if m.status != "" {
		style := m.styles.Success
		if strings.HasPrefix(m.status, "✗") {
			style = m.styles.Error
		}
		sb.WriteString(style.Render(m.status) + "\n\n")
	}

	if m.view == viewOperations {
		sb.WriteString(m.styles.Content.Render(m.opTable.View()))
		sb.WriteString("\n" + m.styles.Footer.Render("[a] approve  [d] delete  [esc] back  [q] quit"))
		return sb.String()
	}

	if len(m.pending) == 0 {
		sb.WriteString(m.styles.Muted.Render("No plans awaiting review."))
		sb.WriteString("\n\n" + m.styles.Footer.Render("[r] reload  [q] quit"))
		return sb.String()
	}

	sb.WriteString(m.styles.Content.Render(m.planTable.View()))
	sb.WriteString("\n" + m.styles.Footer.Render("[enter] operations  [a] approve  [d] delete  [r] reload  [q] quit"))
	return sb.String()
}

// SetSize updates the size.
func (m *ReviewModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.planTable.SetWidth(w - 4)
	m.planTable.SetHeight(h - 6)
	m.opTable.SetWidth(w - 4)
	m.opTable.SetHeight(h - 6)
}

// selectedPlan returns the plan under the cursor, if any.
func (m ReviewModel) selectedPlan() *primary.Plan {
	i := m.planTable.Cursor()
	if i < 0 || i >= len(m.pending) {
		return nil
	}
	return m.pending[i]
}

// actionTarget resolves which plan an approve or delete applies to.
func (m ReviewModel) actionTarget() *primary.Plan {
	if m.view == viewOperations {
		return m.current
	}
	return m.selectedPlan()
}

func (m *ReviewModel) updatePlanRows() {
	var rows []table.Row
	for _, p := range m.pending {
		rows = append(rows, table.Row{
			p.ID,
			p.Category,
			p.Status,
			fmt.Sprintf("%d", p.OpCount),
			p.CreatedAt,
		})
	}
	m.planTable.SetRows(rows)
	if len(rows) > 0 && m.planTable.Cursor() >= len(rows) {
		m.planTable.SetCursor(len(rows) - 1)
	}
}

func (m *ReviewModel) updateOpRows(ops []*primary.PlanOperation) {
	var rows []table.Row
	for _, op := range ops {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", op.Seq),
			op.Kind,
			op.SourceName,
			op.TargetPath,
		})
	}
	m.opTable.SetRows(rows)
	m.opTable.SetCursor(0)
}

// loadPlans fetches every plan awaiting a decision, review plans first.
func (m ReviewModel) loadPlans() tea.Msg {
	ctx := context.Background()

	var pending []*primary.Plan
	for _, status := range []string{models.PlanStatusNeedsReview, models.PlanStatusNeedsSpecial} {
		plans, err := m.plans.ListPlans(ctx, primary.PlanFilters{Status: status})
		if err != nil {
			return errMsg{err}
		}
		pending = append(pending, plans...)
	}
	return plansLoadedMsg{plans: pending}
}

func (m ReviewModel) loadOperations(plan *primary.Plan) tea.Cmd {
	return func() tea.Msg {
		ops, err := m.plans.GetOperations(context.Background(), plan.ID)
		if err != nil {
			return errMsg{err}
		}
		return opsLoadedMsg{plan: plan, ops: ops}
	}
}

func (m ReviewModel) approve(planID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.plans.ApprovePlan(context.Background(), planID); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{planID: planID, action: "approved"}
	}
}

func (m ReviewModel) remove(planID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.plans.DeletePlan(context.Background(), planID); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{planID: planID, action: "deleted"}
	}
}
