package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mindgym-app/mindgym/internal/model"
)

// hanoiRunner is the classic three-peg puzzle. Pegs are selected with the
// number keys: first press picks the source, second the destination.
type hanoiRunner struct {
	disks      int
	pegs       [3][]int // bottom to top, disk sizes
	selected   int      // source peg, -1 when none
	moves      int
	startedAt  time.Time
	solveTime  time.Duration
	invalidMsg string
	finished   bool
}

func newHanoiRunner(disks int) *hanoiRunner {
	if disks <= 0 {
		disks = 3
	}
	if disks > 8 {
		disks = 8
	}
	r := &hanoiRunner{disks: disks, selected: -1, startedAt: time.Now()}
	for size := disks; size >= 1; size-- {
		r.pegs[0] = append(r.pegs[0], size)
	}
	return r
}

func (r *hanoiRunner) init() tea.Cmd {
	r.startedAt = time.Now()
	return nil
}

func (r *hanoiRunner) update(msg tea.Msg) (runner, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || r.finished {
		return r, nil
	}
	switch key.String() {
	case "1", "2", "3":
		peg := int(key.String()[0] - '1')
		r.pressPeg(peg)
	}
	return r, nil
}

func (r *hanoiRunner) pressPeg(peg int) {
	r.invalidMsg = ""
	if r.selected == -1 {
		if len(r.pegs[peg]) == 0 {
			r.invalidMsg = "That peg is empty."
			return
		}
		r.selected = peg
		return
	}
	if peg == r.selected {
		r.selected = -1
		return
	}
	if !r.moveLegal(r.selected, peg) {
		r.invalidMsg = "Can't place a larger disk on a smaller one."
		r.selected = -1
		return
	}
	r.moveDisk(r.selected, peg)
	r.selected = -1
	if len(r.pegs[2]) == r.disks {
		r.solveTime = time.Since(r.startedAt)
		r.finished = true
	}
}

func (r *hanoiRunner) moveLegal(from, to int) bool {
	if len(r.pegs[from]) == 0 {
		return false
	}
	if len(r.pegs[to]) == 0 {
		return true
	}
	moving := r.pegs[from][len(r.pegs[from])-1]
	target := r.pegs[to][len(r.pegs[to])-1]
	return moving < target
}

func (r *hanoiRunner) moveDisk(from, to int) {
	disk := r.pegs[from][len(r.pegs[from])-1]
	r.pegs[from] = r.pegs[from][:len(r.pegs[from])-1]
	r.pegs[to] = append(r.pegs[to], disk)
	r.moves++
}

// minMoves is the optimal move count for n disks.
func minMoves(disks int) int {
	return 1<<disks - 1
}

func (r *hanoiRunner) view() string {
	lines := []string{
		titleStyle.Render("Tower of Hanoi"),
		"",
		dimStyle.Render("Move every disk to peg 3. Press a peg number to pick up, then one to drop."),
		"",
	}
	lines = append(lines, r.renderPegs()...)
	status := fmt.Sprintf("Moves: %d (optimal %d)", r.moves, minMoves(r.disks))
	if r.selected >= 0 {
		status += fmt.Sprintf("  ·  holding peg %d", r.selected+1)
	}
	lines = append(lines, "", dimStyle.Render(status))
	if r.invalidMsg != "" {
		lines = append(lines, errorStyle.Render(r.invalidMsg))
	}
	lines = append(lines, "", footerStyle.Render("1/2/3: pegs  esc: abandon"))
	return strings.Join(lines, "\n")
}

func (r *hanoiRunner) renderPegs() []string {
	pegWidth := 2*r.disks + 1
	rows := make([]string, 0, r.disks+1)
	for level := r.disks - 1; level >= 0; level-- {
		cells := make([]string, 3)
		for peg := 0; peg < 3; peg++ {
			if level < len(r.pegs[peg]) {
				cells[peg] = centerDisk(r.pegs[peg][level], pegWidth, peg == r.selected)
			} else {
				cells[peg] = centerDisk(0, pegWidth, peg == r.selected)
			}
		}
		rows = append(rows, strings.Join(cells, "  "))
	}
	labels := make([]string, 3)
	for peg := 0; peg < 3; peg++ {
		labels[peg] = centerText(fmt.Sprintf("%d", peg+1), pegWidth)
	}
	rows = append(rows, dimStyle.Render(strings.Join(labels, "  ")))
	return rows
}

func centerDisk(size, width int, selected bool) string {
	if size == 0 {
		s := centerText("│", width)
		if selected {
			return selectedStyle.Render(s)
		}
		return cellStyle.Render(s)
	}
	disk := strings.Repeat("█", 2*size-1)
	s := centerText(disk, width)
	if selected {
		return selectedStyle.Render(s)
	}
	return itemStyle.Render(s)
}

func centerText(s string, width int) string {
	pad := width - len([]rune(s))
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func (r *hanoiRunner) done() bool {
	return r.finished
}

func (r *hanoiRunner) metrics() model.TaskMetrics {
	return model.HanoiMetrics{
		MovesUsed:   r.moves,
		MinMoves:    minMoves(r.disks),
		SolveTimeMs: r.solveTime.Milliseconds(),
	}
}
