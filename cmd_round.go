package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wader/pecosutil/internal/timeindex"
)

func (a *app) roundCmd() *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "round [timestamp...]",
		Short: "Round timestamps to a multiple of frequency seconds",
		Long: `Round timestamps to a multiple of frequency seconds.
Timestamps are read from arguments or one per line from stdin.
Timestamps without zone are in --tz.`,
		Example: `  pecosutil round -f 60 --how floor "2020-01-01 00:00:10" "2020-01-01 00:00:50"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Round.Validate(); err != nil {
				return err
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return err
			}

			lines := args
			if len(lines) == 0 {
				s := bufio.NewScanner(cmd.InOrStdin())
				for s.Scan() {
					if l := strings.TrimSpace(s.Text()); l != "" {
						lines = append(lines, l)
					}
				}
				if err := s.Err(); err != nil {
					return err
				}
			}

			ts, err := timeindex.ParseIndex(lines, loc)
			if err != nil {
				return err
			}

			// unknown methods are passed on as is, Rounder decides what to do
			how, err := timeindex.ParseHow(a.cfg.Round.How)
			if err != nil {
				how = timeindex.How(a.cfg.Round.How)
			}
			r := &timeindex.Rounder{Log: a.log, Strict: a.cfg.Round.Strict}
			a.log.Debugf("round %d timestamps frequency=%ds how=%s", len(ts), a.cfg.Round.Frequency, how)
			rounded, err := r.RoundIndex(ts, a.cfg.Round.Frequency, how)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, t := range rounded {
				fmt.Fprintln(w, t.Format(timeindex.Layout))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64P("frequency", "f", 60, "Grid width in seconds")
	cmd.Flags().String("how", string(timeindex.Nearest), "Rounding method nearest, floor or ceiling")
	cmd.Flags().Bool("strict", false, "Fail on unknown rounding method instead of not rounding")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "Zone for timestamps without zone")

	return cmd
}
