package cli

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"avotrade/internal/cli/output"
	"avotrade/internal/client"
)

const (
	categoryFlag = "category"
	daysFlag     = "days"
)

var productsListFlags = map[string]cobraflags.Flag{
	categoryFlag: &cobraflags.StringFlag{
		Name:  categoryFlag,
		Value: "",
		Usage: "Only products in this category (avocado, macadamia)",
	},
	searchFlag: &cobraflags.StringFlag{
		Name:  searchFlag,
		Value: "",
		Usage: "Match name, description or specifications",
	},
}

var statsFlags = map[string]cobraflags.Flag{
	daysFlag: &cobraflags.StringFlag{
		Name:  daysFlag,
		Value: "7",
		Usage: "Size of the reporting window in days",
	},
}

func newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the public catalogue",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalogue products",
		Args:  cobra.NoArgs,
		RunE:  runProductsList,
	}
	cobraflags.RegisterMap(list, productsListFlags)
	cmd.AddCommand(list)
	return cmd
}

func runProductsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The catalogue is public; no login needed.
	c := client.New(client.AgentTransport{BaseURL: cfg.APIURL})
	products, err := c.Products(cmd.Context(),
		productsListFlags[categoryFlag].GetString(),
		productsListFlags[searchFlag].GetString())
	if err != nil {
		return err
	}
	if len(products) == 0 {
		output.Muted("No products match.")
		return nil
	}
	output.Table(productHeader, productRows(products))
	return nil
}

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show visit and enquiry totals",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	cobraflags.RegisterMap(cmd, statsFlags)
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	days, err := positiveInt(daysFlag, statsFlags[daysFlag].GetString())
	if err != nil {
		return err
	}
	c, err := clientFromConfig(cmd)
	if err != nil {
		return err
	}
	st, err := c.Stats(cmd.Context(), days)
	if err != nil {
		return err
	}
	output.Section(fmt.Sprintf("Last %d days", days))
	output.Info("Visits: %d", st.TotalVisits)
	output.Info("Enquiries: %d", st.TotalEnquiries)
	if len(st.VisitsByDay) > 0 {
		fmt.Fprintln(output.Out)
		output.Table([]string{"DAY", "VISITS", ""}, dayRows(st.VisitsByDay))
	}
	return nil
}
