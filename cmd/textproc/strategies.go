package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alucardeht/textproc/internal/registry"
)

type strategiesOutput struct {
	Strategies []registry.Strategy       `json:"strategies"`
	Providers  []registry.ProviderStatus `json:"providers"`
}

func newStrategiesCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "Show the implementations registered for each operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.load(cmd)
			if err != nil {
				return err
			}

			reg := rt.processor.Registry()
			out := strategiesOutput{
				Strategies: reg.Describe(),
				Providers:  reg.Providers(),
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			ok := color.New(color.FgGreen)
			warn := color.New(color.FgYellow)

			for _, p := range out.Providers {
				fmt.Fprintf(w, "provider %s: ", p.Name)
				if p.Available {
					_, _ = ok.Fprintln(w, "available")
				} else {
					_, _ = warn.Fprintln(w, "unavailable: "+p.Error)
				}
			}

			for _, s := range out.Strategies {
				fmt.Fprintf(w, "%s -> %s\n", s.Operation, s.Selected)
				for _, c := range s.Candidates {
					marker := " "
					if c.Name == s.Selected {
						marker = ok.Sprint("*")
					}
					notes := "available"
					if !c.Available {
						notes = "unavailable"
						if c.Error != "" {
							notes += ": " + c.Error
						}
						notes = warn.Sprint(notes)
					}
					if c.Reference {
						notes += ", reference"
					}
					fmt.Fprintf(w, "  %s %-12s priority=%-4d %s\n", marker, c.Name, c.Priority, notes)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
