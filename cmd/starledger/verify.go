package main

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/alexsserban/starledger/archive"
	"github.com/alexsserban/starledger/ledger"
)

func newVerifyCmd() *cobra.Command {
	var dbPath, hash string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Validate an archived chain offline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hasher, err := ledger.HasherByName(hash)
			if err != nil {
				return err
			}
			arch, err := archive.Open(dbPath)
			if err != nil {
				return err
			}
			defer arch.Close()

			records, err := arch.Records()
			if err != nil {
				return err
			}
			violations := ledger.Validate(hasher, records)
			if len(violations) == 0 {
				pterm.Success.Printfln("%d records, chain is valid", len(records))
				return nil
			}
			if err := renderViolations(violations); err != nil {
				return err
			}
			return errors.Errorf("%d records, %d violations", len(records), len(violations))
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "starledger.db", "archive file")
	cmd.Flags().StringVar(&hash, "hash", ledger.SHA256.Name(), "hash algorithm the chain was sealed with")
	return cmd
}

func renderViolations(violations []ledger.Violation) error {
	data := pterm.TableData{{"Height", "Kind", "Detail"}}
	for _, v := range violations {
		data = append(data, []string{strconv.FormatUint(v.Height, 10), pterm.LightRed(string(v.Kind)), v.Message})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
