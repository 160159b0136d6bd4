package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/ledger"
)

var capitalCmd = &cobra.Command{
	Use:   "capital",
	Short: "Derive capital state from a positions/orders snapshot",
	Long: `Capital recomputes the account's capital state from a JSON snapshot
of positions and orders. Optionally it checks whether a proposed entry
order (--limit and --qty) would be admitted.

Snapshot format:
  {
    "account_size": 500,
    "positions": [{"ticker": "ASML", "status": "open", "entry_price": 100, "shares": 3, ...}],
    "orders":    [{"ticker": "ENEL", "status": "pending", "kind": "entry", "quantity": 10, "limit_price": 10}]
  }

Example:
  swing capital --book book.json --limit 25.50 --qty 40`,
	RunE: runCapital,
}

var (
	capBookPath string
	capLimit    float64
	capQty      int
	capJSONOut  bool
)

func init() {
	rootCmd.AddCommand(capitalCmd)

	capitalCmd.Flags().StringVarP(&capBookPath, "book", "b", "", "path to positions/orders snapshot JSON (required)")
	capitalCmd.Flags().Float64VarP(&capLimit, "limit", "l", 0, "limit price of a proposed entry order to check")
	capitalCmd.Flags().IntVarP(&capQty, "qty", "q", 0, "quantity of the proposed entry order")
	capitalCmd.Flags().BoolVar(&capJSONOut, "json", false, "print results as JSON")

	capitalCmd.MarkFlagRequired("book")
}

// bookSnapshot is the on-disk shape of the order-management state.
type bookSnapshot struct {
	AccountSize float64         `json:"account_size"`
	Positions   []book.Position `json:"positions"`
	Orders      []book.Order    `json:"orders"`
}

func runCapital(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(capBookPath)
	if err != nil {
		return fmt.Errorf("read book snapshot: %w", err)
	}

	var snap bookSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse book snapshot: %w", err)
	}

	state, err := ledger.ComputeCapitalState(snap.Positions, snap.Orders, snap.AccountSize)
	if err != nil {
		return fmt.Errorf("compute capital state: %w", err)
	}

	if capJSONOut {
		out, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Printf("Capital state\n")
		fmt.Printf("  Account size: %.2f\n", state.AccountSize)
		fmt.Printf("  Allocated:    %.2f\n", state.AllocatedPositions)
		fmt.Printf("  Reserved:     %.2f\n", state.ReservedOrders)
		fmt.Printf("  Available:    %.2f\n", state.Available)
		fmt.Printf("  Utilization:  %.1f%%\n", 100*state.UtilizationPct)
	}

	if capLimit <= 0 && capQty <= 0 {
		return nil
	}
	if capLimit <= 0 || capQty <= 0 {
		return fmt.Errorf("both --limit and --qty are required to check a proposed order")
	}

	// Run the proposed order through the same admission path the
	// collaborator would use.
	b, err := ledger.NewBook(snap.AccountSize)
	if err != nil {
		return err
	}
	for _, p := range snap.Positions {
		if _, err := b.AddPosition(p); err != nil {
			return err
		}
	}
	for _, o := range snap.Orders {
		if _, err := b.CreateOrder(o); err != nil && !ledger.IsInsufficientCapital(err) {
			return err
		}
	}

	_, err = b.CreateOrder(book.Order{
		Ticker:     "PROPOSED",
		Status:     book.OrderPending,
		Kind:       book.KindEntry,
		Quantity:   capQty,
		LimitPrice: capLimit,
	})

	var ice *ledger.InsufficientCapitalError
	switch {
	case err == nil:
		fmt.Printf("\nProposed order (%.2f x %d = %.2f): ADMITTED\n",
			capLimit, capQty, capLimit*float64(capQty))
	case errors.As(err, &ice):
		if capJSONOut {
			out, mErr := json.MarshalIndent(ice, "", "  ")
			if mErr != nil {
				return mErr
			}
			fmt.Println(string(out))
		} else {
			fmt.Printf("\nProposed order REJECTED: %s\n", ice.Check.Reason)
		}
	default:
		return err
	}
	return nil
}
