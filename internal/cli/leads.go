package cli

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"avotrade/internal/cli/output"
	"avotrade/internal/client"
	"avotrade/internal/domain"
)

const (
	statusFlag = "status"
	searchFlag = "search"
	limitFlag  = "limit"
)

var leadsListFlags = map[string]cobraflags.Flag{
	statusFlag: &cobraflags.StringFlag{
		Name:  statusFlag,
		Value: "",
		Usage: "Only leads in this stage (new, pending, completed, archived)",
	},
	searchFlag: &cobraflags.StringFlag{
		Name:  searchFlag,
		Value: "",
		Usage: "Match name, company, email or product",
	},
	limitFlag: &cobraflags.StringFlag{
		Name:  limitFlag,
		Value: "50",
		Usage: "Maximum number of leads to show",
	},
}

func newLeadsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Work the enquiry pipeline on a running server",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		Args:  cobra.NoArgs,
		RunE:  runLeadsList,
	}
	cobraflags.RegisterMap(list, leadsListFlags)

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "advance <id>",
			Short: "Move a lead one stage forward (new to pending, pending to completed)",
			Args:  cobra.ExactArgs(1),
			RunE:  runLeadsAdvance,
		},
		&cobra.Command{
			Use:   "archive <id>",
			Short: "Archive a lead",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setLeadStatus(cmd, args[0], domain.StatusArchived)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a lead permanently",
			Args:  cobra.ExactArgs(1),
			RunE:  runLeadsDelete,
		},
	)
	return cmd
}

func runLeadsList(cmd *cobra.Command, _ []string) error {
	limit, err := positiveInt(limitFlag, leadsListFlags[limitFlag].GetString())
	if err != nil {
		return err
	}
	c, err := clientFromConfig(cmd)
	if err != nil {
		return err
	}
	leads, err := c.Enquiries(cmd.Context(), client.EnquiryQuery{
		Limit:  limit,
		Status: leadsListFlags[statusFlag].GetString(),
		Search: leadsListFlags[searchFlag].GetString(),
	})
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		output.Muted("No leads match.")
		return nil
	}
	output.Table(leadHeader, leadRows(leads))
	return nil
}

func runLeadsAdvance(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c, err := clientFromConfig(cmd)
	if err != nil {
		return err
	}
	lead, err := c.Enquiry(cmd.Context(), id)
	if err != nil {
		return err
	}
	next, ok := lead.Status.Next()
	if !ok {
		return fmt.Errorf("lead %d is %s and has no next stage", id, lead.Status)
	}
	updated, err := c.UpdateStatus(cmd.Context(), id, next)
	if err != nil {
		return err
	}
	output.Success("Lead %d moved %s → %s", id, lead.Status, updated.Status)
	return nil
}

func setLeadStatus(cmd *cobra.Command, rawID string, status domain.EnquiryStatus) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	c, err := clientFromConfig(cmd)
	if err != nil {
		return err
	}
	updated, err := c.UpdateStatus(cmd.Context(), id, status)
	if err != nil {
		return err
	}
	output.Success("Lead %d is now %s", id, updated.Status)
	return nil
}

func runLeadsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c, err := clientFromConfig(cmd)
	if err != nil {
		return err
	}
	if err := c.DeleteEnquiry(cmd.Context(), id); err != nil {
		return err
	}
	output.Success("Lead %d deleted", id)
	return nil
}

func clientFromConfig(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return apiClient(cmd.Context(), cfg)
}
