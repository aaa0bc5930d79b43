package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
)

func money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

// RenderShowcase prints the showcase cards as a table
func RenderShowcase(w io.Writer, showcase *models.ShowcaseResponse) error {
	if showcase.Count == 0 {
		_, err := fmt.Fprintf(w, "No products in category %q.\n", showcase.Category)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPRICE\tFROM/MO\t")
	for _, p := range showcase.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", p.ID, p.Name, p.Type, money(p.Price), fmt.Sprintf("$%.2f", p.MonthlyPrice))
	}
	return tw.Flush()
}

// RenderConfiguration prints the steps, the priced breakdown and the lease
func RenderConfiguration(w io.Writer, result *ConfigureResult) error {
	session := result.Session
	product := session.Product()
	summary := session.Summary()

	fmt.Fprintf(w, "%s (%s)\n", catalog.Decode(product.Name), session.ProductID())

	labels := make([]string, 0, len(session.Plan().Steps))
	for _, step := range session.Plan().Steps {
		labels = append(labels, step.Label)
	}
	fmt.Fprintf(w, "Steps: %s\n", strings.Join(labels, " > "))
	for _, g := range session.Plan().Unsupported {
		fmt.Fprintf(w, "Skipped group: %s (%s)\n", g.Name, g.GroupID)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Base price\t\t%s\t\n", money(summary.BasePrice))
	for _, item := range summary.Attributes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", item.Name, item.Value, lineItemPrice(item))
	}
	for _, item := range summary.Components {
		fmt.Fprintf(tw, "%s\t\t%s\t\n", item.Name, lineItemPrice(item))
	}
	fmt.Fprintf(tw, "Total\t\t%s\t\n", money(summary.TotalPrice))
	if err := tw.Flush(); err != nil {
		return err
	}

	f := result.Financing
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Lease: %d months at %.1f%% APR, %s down, %s/mo (financed %s)\n",
		f.LeaseTerm, f.APR, money(f.DownPayment), money(f.MonthlyPayment), money(f.FinancedAmount))

	if resp := result.Response; resp != nil {
		id := resp.Data.OrderID
		if id == "" {
			id = resp.Data.QuoteID
		}
		fmt.Fprintf(w, "%s: %s\n", resp.Message, id)
	}
	return nil
}

func lineItemPrice(item configurator.LineItem) string {
	if item.Included {
		return "included"
	}
	if item.Price == 0 {
		return "-"
	}
	return "+" + money(item.Price)
}

// RenderSubmissions prints ledger rows, newest first
func RenderSubmissions(w io.Writer, list *models.SubmissionListResponse) error {
	if list.Count == 0 {
		_, err := fmt.Fprintln(w, "No submissions recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tKIND\tPRODUCT\tTOTAL\tSTATUS\tREFERENCE\t")
	for _, s := range list.Submissions {
		ref := s.ExternalID
		if s.Error != "" {
			ref = s.Error
		}
		product := s.ProductName
		if product == "" {
			product = s.ProductID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Kind, product, money(s.TotalPrice), s.Status, ref)
	}
	return tw.Flush()
}
