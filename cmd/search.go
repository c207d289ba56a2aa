package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
)

var (
	searchMaxPrice int
	searchBundle   bool
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the marketplaces and appraise the cheapest finds",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		resp, err := env.Orchestrator.Handle(ctx, model.SearchQuery{
			Text:     strings.Join(args, " "),
			MaxPrice: searchMaxPrice,
			Bundle:   searchBundle,
		})
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		printResults(resp)
		return nil
	},
}

func printResults(resp *model.SearchResponse) {
	if resp.Cached {
		fmt.Println("(cached)")
	}
	if len(resp.Results) == 0 {
		fmt.Println("no listings found")
		return
	}

	for i, r := range resp.Results {
		title := r.RealTitle
		if title == "" {
			title = r.DeclaredTitle
		}
		fmt.Printf("%2d. %s [%s]\n", i+1, title, r.Marketplace)
		fmt.Printf("    listed $%.2f  estimated $%.2f  profit $%+.2f  confidence %s\n",
			r.ListedPrice, r.EstimatedPrice, r.ProfitPotential, r.Confidence)
		if r.IsBundle && len(r.HiddenItems) > 0 {
			fmt.Printf("    bundle breakup $%.2f: %s\n",
				r.EstimatedBreakupValue, strings.Join(r.HiddenItems, ", "))
		}
		if r.Reasoning != "" {
			fmt.Printf("    %s\n", r.Reasoning)
		}
		if r.MarketURL != "" {
			fmt.Printf("    %s\n", r.MarketURL)
		}
	}
}

func init() {
	searchCmd.Flags().IntVar(&searchMaxPrice, "max-price", 100, "price ceiling in whole currency units")
	searchCmd.Flags().BoolVar(&searchBundle, "bundle", false, "hunt multi-item lots and appraise their breakup value")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit raw JSON")
	rootCmd.AddCommand(searchCmd)
}
