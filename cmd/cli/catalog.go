package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"consulthub/internal/catalog"
	"consulthub/internal/content"
	"consulthub/pkg/models"
)

var (
	listQuery   string
	listCountry string
	listSector  string
	listSort    string
	listLocale  string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query projects and investments from the data directory",
}

var catalogListCmd = &cobra.Command{
	Use:       "list <projects|investments>",
	Short:     "List records matching the filters",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"projects", "investments"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := loadIndex(args[0])
		if err != nil {
			return err
		}
		q := catalog.Query{
			Text:          listQuery,
			Country:       listCountry,
			Sector:        listSector,
			Sort:          catalog.ParseSortMode(listSort),
			MatchLocation: ix.Kind() == models.KindInvestment,
		}
		l := models.ParseLocale(listLocale, models.ParseLocale(cfg.Site.DefaultLocale, models.LocaleAr))
		return printRecords(cmd.OutOrStdout(), ix.Search(q), l, cfg.Site.Currency)
	},
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats <projects|investments>",
	Short: "Print aggregate stats for a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := loadIndex(args[0])
		if err != nil {
			return err
		}
		res := ix.Search(catalog.Query{Country: listCountry, Sector: listSector})
		l := models.ParseLocale(listLocale, models.LocaleEn)
		return printStats(cmd.OutOrStdout(), res.Stats, l, cfg.Site.Currency)
	},
}

var catalogFiltersCmd = &cobra.Command{
	Use:   "filters <projects|investments>",
	Short: "Print the country and sector filter options",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := loadIndex(args[0])
		if err != nil {
			return err
		}
		l := models.ParseLocale(listLocale, models.LocaleEn)
		return printFilters(cmd.OutOrStdout(), ix.Lookups(), l)
	},
}

func init() {
	catalogListCmd.Flags().StringVar(&listQuery, "q", "", "text search")
	catalogListCmd.Flags().StringVar(&listSort, "sort", "", "investment | roi | name")
	for _, c := range []*cobra.Command{catalogListCmd, catalogStatsCmd} {
		c.Flags().StringVar(&listCountry, "country", catalog.All, "country key")
		c.Flags().StringVar(&listSector, "sector", catalog.All, "sector key")
	}
	for _, c := range []*cobra.Command{catalogListCmd, catalogStatsCmd, catalogFiltersCmd} {
		c.Flags().StringVar(&listLocale, "locale", "", "en | ar")
	}

	catalogCmd.AddCommand(catalogListCmd, catalogStatsCmd, catalogFiltersCmd)
	rootCmd.AddCommand(catalogCmd)
}

func loadIndex(kindArg string) (*catalog.Index, error) {
	kind, ok := models.ParseKind(kindArg)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q (want projects or investments)", kindArg)
	}
	snap, err := content.Load(cfg.Data.Dir, catalog.NewNormalizer(nil))
	if err != nil {
		return nil, err
	}
	return snap.Collection(kind), nil
}

func printRecords(w io.Writer, res catalog.Result, l models.Locale, currencyCode string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOUNTRY\tSECTOR\tINVESTMENT\tROI")
	for _, r := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Name.In(l),
			r.Country.Label.In(l),
			r.Sector.Label.In(l),
			catalog.FormatCurrency(r.Financial.TotalInvestment, currencyCode, l),
			r.Financial.RateOfReturn,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d records, total %s, average return %s\n",
		res.Stats.Count,
		catalog.FormatCurrency(res.Stats.TotalInvestment, currencyCode, l),
		res.Stats.AverageReturnDisplay,
	)
	return err
}

func printStats(w io.Writer, s catalog.Stats, l models.Locale, currencyCode string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "records\t%d\n", s.Count)
	fmt.Fprintf(tw, "countries\t%d\n", s.Countries)
	fmt.Fprintf(tw, "sectors\t%d\n", s.Sectors)
	fmt.Fprintf(tw, "total investment\t%s\n", catalog.FormatCurrency(s.TotalInvestment, currencyCode, l))
	fmt.Fprintf(tw, "expected profit\t%s\n", catalog.FormatCurrency(s.TotalExpectedProfit, currencyCode, l))
	fmt.Fprintf(tw, "average return\t%s (%d with a rate)\n", s.AverageReturnDisplay, s.ReturnSamples)
	return tw.Flush()
}

func printFilters(w io.Writer, lk catalog.Lookups, l models.Locale) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILTER\tKEY\tLABEL")
	for _, o := range lk.Countries.Options(l) {
		fmt.Fprintf(tw, "country\t%s\t%s\n", o.Key, o.Label)
	}
	for _, o := range lk.Sectors.Options(l) {
		fmt.Fprintf(tw, "sector\t%s\t%s\n", o.Key, o.Label)
	}
	return tw.Flush()
}
