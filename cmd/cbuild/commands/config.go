package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the configuration header without building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings(cmd)
			if err != nil {
				return err
			}
			list, _ := cmd.Flags().GetBool("list")
			if list {
				return c.app.ListOptions(cmd.Context(), s)
			}
			return c.app.Configure(cmd.Context(), s)
		},
	}
	cmd.Flags().BoolP("list", "l", false, "List the declared build options instead")
	return cmd
}
