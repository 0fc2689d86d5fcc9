package main

import (
	"github.com/spf13/cobra"
)

func reservationsCmd(c *cli) *cobra.Command {
	var (
		guest int64
		limit int
	)
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List a guest's reservations with property details",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.q.GetAllReservations(cmd.Context(), guest, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, rs)
		},
	}
	cmd.Flags().Int64Var(&guest, "guest", 0, "guest user id")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum reservations to return")
	_ = cmd.MarkFlagRequired("guest")
	return cmd
}
