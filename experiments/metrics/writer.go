package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type GameRecord struct {
	ID    int
	Seats []int // AgentConfig.ID per seat
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> for the files of one experiment.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "goroutines", "duration", "episodes", "cutoff", "temperature"}
	rows := make([][]string, len(configs))
	for i, config := range configs {
		rows[i] = []string{
			strconv.Itoa(config.ID),
			string(config.Kind),
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Cutoff),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		}
	}
	return w.writeCSV("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "game", "seed", "seats", "starting_player", "winner", "scores", "total_moves", "start_time", "end_time", "duration"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.ID),
			record.GameMetric.ID,
			strconv.FormatUint(record.Seed, 10),
			joinInts(record.Seats),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.Winner),
			joinInts(record.Scores),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
	}
	return w.writeCSV("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "duration", "episodes", "episodes_per_second", "full_playouts", "rollout_depth", "max_rollout_depth", "is_tree_reset"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Action,
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.FormatFloat(record.EpisodesPerSecond(), 'f', 1, 64),
			strconv.Itoa(record.FullPlayouts),
			strconv.FormatFloat(record.RolloutDepth, 'f', 2, 64),
			strconv.Itoa(record.MaxRolloutDepth),
			strconv.FormatBool(record.IsTreeReset),
		}
	}
	return w.writeCSV("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteSummary(s Summary, configs []AgentConfig) error {
	header := []string{"agent", "wins"}
	var rows [][]string
	for _, config := range configs {
		rows = append(rows, []string{config.String(), strconv.Itoa(s.Wins[config.ID])})
	}
	rows = append(rows,
		[]string{"games", strconv.Itoa(s.Games)},
		[]string{"unfinished", strconv.Itoa(s.Unfinished)},
		[]string{"mean_moves", strconv.FormatFloat(s.MeanMoves, 'f', 2, 64)},
		[]string{"stddev_moves", strconv.FormatFloat(s.StdDevMoves, 'f', 2, 64)},
		[]string{"mean_episodes", strconv.FormatFloat(s.MeanEpisodes, 'f', 2, 64)},
		[]string{"full_playouts", strconv.FormatFloat(s.FullPlayouts, 'f', 4, 64)},
		[]string{"tree_reuse_rate", strconv.FormatFloat(s.TreeReuseRate, 'f', 4, 64)},
	)
	return w.writeCSV("summary.csv", "summary", header, rows)
}

// WriteWinChart renders a bar chart of games won per agent.
func (w *Writer) WriteWinChart(name string, s Summary, configs []AgentConfig) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("%d games, %d unfinished", s.Games, s.Unfinished),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	labels := make([]string, len(configs))
	items := make([]opts.BarData, len(configs))
	for i, config := range configs {
		labels[i] = config.String()
		items[i] = opts.BarData{Value: s.Wins[config.ID]}
	}
	bar.SetXAxis(labels).AddSeries("wins", items)

	f, err := os.Create(filepath.Join(w.baseDir, "wins.html"))
	if err != nil {
		return fmt.Errorf("failed to create win chart file: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(bar)
	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render win chart: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(file, what string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}

	// Write each row
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", what, err)
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ";")
}
