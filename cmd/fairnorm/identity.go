package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/fairnorm/internal/engine/identity"
	"github.com/crimson-sun/fairnorm/internal/model"
)

func newIdentityCommand(a *app) *cobra.Command {
	var (
		raw     model.RawRecord
		hint    string
		showKey bool
	)
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Print the identity id the engine derives for an event",
		Long: "Normalizes the given fields the way the pipeline does and prints the identity id.\n" +
			"With --key the normalized identity fields and the hashed key are printed as JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if raw.EventName == "" {
				return fmt.Errorf("identity: --name is required")
			}
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			rec := eng.Normalize(raw, model.SourceHint(hint))
			if raw.StartRaw != "" && rec.StartDatetime == nil {
				return fmt.Errorf("identity: cannot parse start %q", raw.StartRaw)
			}
			if !showKey {
				fmt.Fprintln(cmd.OutOrStdout(), rec.IdentityID)
				return nil
			}
			f := identity.Of(rec)
			start := ""
			if f.Start != nil {
				start = identity.FormatStart(*f.Start)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"identity_id":    rec.IdentityID,
				"event_name":     f.EventName,
				"start_datetime": start,
				"venue":          f.Venue,
				"organizer_name": f.OrganizerName,
				"key":            f.Key(),
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&raw.EventName, "name", "", "event name")
	fl.StringVar(&raw.StartRaw, "start", "", "start date and time, any supported format")
	fl.StringVar(&raw.VenueRaw, "venue", "", "venue")
	fl.StringVar(&raw.OrganizerName, "organizer", "", "organizer name")
	fl.StringVar(&hint, "hint", "", "source hint (government)")
	fl.BoolVar(&showKey, "key", false, "print the normalized fields and key as JSON")
	return cmd
}
