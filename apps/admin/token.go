package main

import (
	"fmt"

	"github.com/spf13/cobra"

	echoapi "github.com/trezcool/duka/apps/api/echo"
	"github.com/trezcool/duka/core"
)

func (cli *commandLine) tokenCmd() *cobra.Command {
	var actor core.Actor

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed API token for a collaborator",
		Example: `  admin token --subject 42 --email jane@uni.edu --name "Jane Doe"
  admin token --subject editor-1 --email editorial@duka.app --admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor.ID = core.CleanString(actor.ID)
			actor.Email = core.CleanString(actor.Email, true)
			if actor.ID == "" || actor.Email == "" {
				_ = cmd.Usage()
				return errHelp
			}
			token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, actor))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor.ID, "subject", "", "collaborator ID carried as the token subject (required)")
	cmd.Flags().StringVar(&actor.Email, "email", "", "collaborator email (required)")
	cmd.Flags().StringVar(&actor.Name, "name", "", "collaborator display name")
	cmd.Flags().BoolVar(&actor.IsAdmin, "admin", false, "grant editorial (admin) rights")
	return cmd
}
