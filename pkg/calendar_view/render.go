package calendar_view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/day_log"
)

const cellWidth = 4

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Width(cellWidth * calendar.DaysInWeek).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(cellWidth).
			Align(lipgloss.Right)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(cellWidth).
			Align(lipgloss.Right)

	learnedStyle = cellStyle.Foreground(lipgloss.Color("42"))
	frozenStyle  = cellStyle.Foreground(lipgloss.Color("39"))
	outsideStyle = cellStyle.Foreground(lipgloss.Color("238"))

	legendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

// RenderMonth draws the month grid of anchor for a terminal. Days are coloured by status,
// days of adjacent months are dimmed and today is underlined.
func RenderMonth(cal calendar.Calendar, anchor time.Time, statuses StatusReader, today time.Time) string {
	monthStart := cal.StartOfMonth(anchor)
	grid := cal.MonthGrid(monthStart)

	header := make([]string, 0, calendar.DaysInWeek)
	for i := 0; i < calendar.DaysInWeek; i++ {
		weekday := time.Weekday((int(cal.FirstWeekday) + i) % calendar.DaysInWeek)
		header = append(header, headerStyle.Render(weekday.String()[:2]))
	}

	rows := []string{
		titleStyle.Render(calendar.MonthTitle(monthStart)),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}
	for week := 0; week < calendar.GridWeeks; week++ {
		cells := make([]string, 0, calendar.DaysInWeek)
		for _, day := range grid[week*calendar.DaysInWeek : (week+1)*calendar.DaysInWeek] {
			cells = append(cells, renderDay(cal, day, statuses.StatusForDate(day.Date), today))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	rows = append(rows, legendStyle.Render(legend(cal, monthStart, statuses)))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderDay(cal calendar.Calendar, day calendar.CalendarDay, status day_log.DayStatus, today time.Time) string {
	style := cellStyle
	switch {
	case !day.IsInCurrentMonth:
		style = outsideStyle
	case status == day_log.Learned:
		style = learnedStyle
	case status == day_log.Frozen:
		style = frozenStyle
	}
	if cal.SameDay(day.Date, today) {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(fmt.Sprintf("%d", day.Date.Day()))
}

func legend(cal calendar.Calendar, monthStart time.Time, statuses StatusReader) string {
	var learned, frozen int
	for day := monthStart; cal.SameMonth(day, monthStart); day = cal.AddDays(day, 1) {
		switch statuses.StatusForDate(day) {
		case day_log.Learned:
			learned++
		case day_log.Frozen:
			frozen++
		}
	}
	return strings.Join([]string{
		learnedStyle.UnsetWidth().Render(fmt.Sprintf("learned %d", learned)),
		frozenStyle.UnsetWidth().Render(fmt.Sprintf("frozen %d", frozen)),
	}, "  ")
}
