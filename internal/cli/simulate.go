package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gyarumi/internal/domain"
	"gyarumi/internal/mood"
)

type scriptStep struct {
	Gap     time.Duration
	Message string
}

type simulateRow struct {
	Step         int                 `json:"step"`
	At           string              `json:"at"`
	Message      string              `json:"message"`
	Continuity   int                 `json:"continuity"`
	Score        float64             `json:"score"`
	Delta        float64             `json:"delta"`
	MoodStyle    string              `json:"mood_style"`
	Dominant     string              `json:"dominant_emotion"`
	Relationship domain.Relationship `json:"relationship"`
	Affinity     float64             `json:"affinity_points"`
	Promotion    string              `json:"promotion,omitempty"`
	Hint         mood.Hint           `json:"hint"`
}

func newSimulateCmd(opts *options) *cobra.Command {
	var (
		scriptPath string
		start      string
		profile    domain.UserProfile
		image      bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a scripted conversation through the mood engine",
		Long: `Each script line is "<gap> <message>", where gap is a Go duration
since the previous message (e.g. 30s, 2h). Blank lines and lines starting
with # are ignored. Use --script - to read from stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			in, closeFn, err := openScript(cmd, scriptPath)
			if err != nil {
				return err
			}
			defer closeFn()

			steps, err := parseScript(in)
			if err != nil {
				return err
			}
			at := time.Now().UTC()
			if start != "" {
				if at, err = time.Parse(time.RFC3339, start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			engine := mood.NewEngine(mood.Config{MemoryModel: opts.memoryModel})
			rows := runSimulation(engine, profile, at, steps, image)
			return writeRows(cmd.OutOrStdout(), opts.format, rows)
		},
	}
	cmd.Flags().StringVarP(&scriptPath, "script", "s", "-", "Script file, or - for stdin")
	cmd.Flags().StringVar(&start, "start", "", "RFC3339 time of the first message (default: now)")
	cmd.Flags().StringVar((*string)(&profile.Gender), "gender", string(domain.GenderFemale), "FEMALE, MALE or OTHER")
	cmd.Flags().StringVar((*string)(&profile.AgeGroup), "age", string(domain.AgeTeen), "TEEN, 20S, 30S or 40S_PLUS")
	cmd.Flags().StringVar((*string)(&profile.Style), "style", string(domain.StyleGal), "GAL, TRENDY, UNCLE or CASUAL")
	cmd.Flags().StringVar((*string)(&profile.Relationship), "relationship", string(domain.RelationshipLow), "LOW, MEDIUM or HIGH")
	cmd.Flags().Float64Var(&profile.AffinityPoints, "affinity", 0, "Starting affinity points")
	cmd.Flags().BoolVar(&image, "image", false, "Treat every message as carrying an image")
	return cmd
}

func openScript(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func parseScript(r io.Reader) ([]scriptStep, error) {
	var steps []scriptStep
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		gapRaw, msg, _ := strings.Cut(text, " ")
		gap, err := time.ParseDuration(gapRaw)
		if err != nil || gap < 0 {
			return nil, fmt.Errorf("line %d: invalid gap %q", line, gapRaw)
		}
		steps = append(steps, scriptStep{Gap: gap, Message: strings.TrimSpace(msg)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("script has no messages")
	}
	return steps, nil
}

func runSimulation(engine *mood.Engine, profile domain.UserProfile, at time.Time, steps []scriptStep, image bool) []simulateRow {
	var state domain.MoodState
	rows := make([]simulateRow, 0, len(steps))
	for i, st := range steps {
		at = at.Add(st.Gap)
		res := engine.Update(profile, state, mood.UpdateInput{Now: at, Message: st.Message, HasImage: image})
		profile, state = res.Profile, res.State

		score := state.MoodScore
		if engine.Config().MemoryModel == mood.MemoryDecaying {
			score = state.VibeScore
		}
		rows = append(rows, simulateRow{
			Step:         i + 1,
			At:           mood.LocalTime(at).Format("01-02 15:04"),
			Message:      st.Message,
			Continuity:   state.Continuity,
			Score:        score,
			Delta:        res.Delta,
			MoodStyle:    res.MoodStyle,
			Dominant:     res.Dominant.String(),
			Relationship: profile.Relationship,
			Affinity:     profile.AffinityPoints,
			Promotion:    string(res.Promotion),
			Hint:         res.Hint,
		})
	}
	return rows
}

func writeRows(w io.Writer, format string, rows []simulateRow) error {
	if format == "json" {
		return printJSON(w, rows)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tAT(JST)\tCONT\tSCORE\tDELTA\tSTYLE\tEMOTION\tTIER\tAFFINITY\tHINT\tMESSAGE")
	for _, r := range rows {
		hint := r.Hint.Phrase
		if r.Hint.Final {
			hint = "[final] " + hint
		}
		tier := string(r.Relationship)
		if r.Promotion != "" {
			tier += " ↑"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%+.3f\t%+.3f\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			r.Step, r.At, r.Continuity, r.Score, r.Delta, r.MoodStyle, r.Dominant, tier, r.Affinity, hint, r.Message)
	}
	return tw.Flush()
}
