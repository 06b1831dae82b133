// Command catalog-check validates catalog CSV files before they are shipped
// to the pricing server and prints what they contain.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/catalogfile"
	"github.com/xenking/basket-pricer/pkg/moneyfmt"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s file.csv [file2.csv.gz ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, flag.Args()); err != nil {
		slog.Error("catalog check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, paths []string) error {
	cat, err := catalogfile.NewLoader().Load(ctx, paths...)
	if err != nil {
		return err
	}

	one := decimal.NewFromInt(1)
	for _, name := range cat.Categories() {
		strategy, ok := cat.Strategy(name)
		if !ok {
			continue
		}
		fmt.Printf("%-16s %-10s unit price %s\n",
			name, strategy.Kind(), moneyfmt.Amount(strategy.Price(one)))
	}

	slog.Info("catalog valid",
		slog.Int("categories", cat.Len()),
		slog.Int("files", len(paths)),
	)
	return nil
}
