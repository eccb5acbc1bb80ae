package main

import (
	"fmt"
	"io"

	"github.com/NethermindEth/kipt/journal"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatF = "format"

	formatTable = "table"
	formatYAML  = "yaml"
)

func JournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List the recorded operation outcomes",
		Long:  `This command prints every operation outcome recorded with --journal, oldest run first.`,
		Args:  cobra.NoArgs,
		RunE:  listJournal,
	}
	cmd.Flags().String(journalF, defaultJournal, journalUsage)
	cmd.Flags().String(formatF, formatTable, "Output format: table or yaml.")
	return cmd
}

func listJournal(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString(journalF)
	if err != nil {
		return err
	}
	if dir == "" {
		return fmt.Errorf("--%s is required", journalF)
	}
	format, err := cmd.Flags().GetString(formatF)
	if err != nil {
		return err
	}

	j, err := journal.Open(dir, nil, nil)
	if err != nil {
		return err
	}
	defer j.Close()

	records, err := j.List()
	if err != nil {
		return err
	}

	switch format {
	case formatTable:
		printRecords(cmd.OutOrStdout(), records)
		return nil
	case formatYAML:
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(records)
	default:
		return fmt.Errorf("unknown format %q (known: %s, %s)", format, formatTable, formatYAML)
	}
}

func printRecords(w io.Writer, records []journal.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "Seq", "Kind", "Name", "Tx Hash", "Class Hash", "Address", "Error"})
	table.SetAutoWrapText(false)
	for _, rec := range records {
		table.Append([]string{
			rec.RunID[:8],
			fmt.Sprint(rec.Seq),
			rec.Kind,
			rec.Name,
			rec.TransactionHash,
			rec.ClassHash,
			rec.DeployedAddress,
			rec.Error,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "Total", fmt.Sprint(len(records))})
	table.Render()
}
