package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gyarumi/internal/intent"
)

func newClassifyCmd(opts *options) *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Print the intent flags for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			text := strings.Join(args, " ")
			flags := intent.Classify(text)
			if server != "" {
				remote, err := intent.NewClient(server, timeout).Classify(cmd.Context(), text)
				if err != nil {
					return fmt.Errorf("classify via %s: %w", server, err)
				}
				flags = remote
			}
			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return printJSON(out, flags)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "generic_query\t%v\n", flags.GenericQuery)
			fmt.Fprintf(tw, "needs_realtime_search\t%v\n", flags.NeedsRealtime)
			fmt.Fprintf(tw, "gal_friendly_topic\t%v\n", flags.GalFriendlyTopic)
			fmt.Fprintf(tw, "asking_daily_life\t%v\n", flags.AskingDailyLife)
			fmt.Fprintf(tw, "asking_place\t%v\n", flags.AskingPlace)
			fmt.Fprintf(tw, "asking_limited_time\t%v\n", flags.AskingLimitedTime)
			fmt.Fprintf(tw, "asking_about_photo\t%v\n", flags.AskingAboutPhoto)
			fmt.Fprintf(tw, "requesting_photo\t%v\n", flags.RequestingPhoto)
			fmt.Fprintf(tw, "time_reference\t%s\n", flags.TimeReference)
			fmt.Fprintf(tw, "brand\t%s\n", flags.Brand)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "Classify through a running mood-server at this base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "Request timeout for --server")
	return cmd
}
