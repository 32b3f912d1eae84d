package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes one row per day followed by the totals.
func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	data := make([][]string, 0, len(stats.Days)+4)
	data = append(data, []string{"Date", "Status"})
	for _, day := range stats.Days {
		data = append(data, []string{day.Date.Format("2006-01-02"), string(day.Status)})
	}
	data = append(data,
		[]string{"Learned", strconv.Itoa(stats.Learned)},
		[]string{"Frozen", strconv.Itoa(stats.Frozen)},
		[]string{"Missed", strconv.Itoa(stats.Missed)},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
