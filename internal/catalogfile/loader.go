// Package catalogfile loads a catalog from CSV files, the format the shop's
// back office exports:
//
//	# category,kind,price[,bundle_size,bundle_price]
//	banana,per_unit,1.00
//	cherry,per_weight,2.00
//	aubergine,multi_buy,,2,1.00
//
// Files ending in .gz are decompressed transparently. Multiple files are
// parsed concurrently and merged in argument order; a category appearing
// twice is a configuration error.
package catalogfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/basket-pricer/internal/domain/catalog"
	"github.com/xenking/basket-pricer/internal/domain/pricing"
)

// record is one parsed CSV row, validated before strategy construction.
type record struct {
	Category    string `validate:"required,min=1"`
	Kind        string `validate:"required,oneof=per_unit per_weight multi_buy"`
	Price       string `validate:"required_unless=Kind multi_buy,omitempty,numeric"`
	BundleSize  string `validate:"required_if=Kind multi_buy,omitempty,number"`
	BundlePrice string `validate:"required_if=Kind multi_buy,omitempty,numeric"`
}

type entry struct {
	category string
	strategy pricing.Strategy
}

// Loader parses catalog CSV files.
type Loader struct {
	validate *validator.Validate
}

// NewLoader returns a Loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// Load parses the given files concurrently and merges them into a single
// catalog. With no paths it returns the built-in default catalog.
func (l *Loader) Load(ctx context.Context, paths ...string) (*catalog.Catalog, error) {
	if len(paths) == 0 {
		return catalog.Default(), nil
	}

	parsed := make([][]entry, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			entries, err := l.parseFile(path)
			if err != nil {
				return errors.Wrapf(err, "parse %s", path)
			}
			parsed[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := catalog.New()
	for i, entries := range parsed {
		for _, e := range entries {
			if err := c.Register(e.category, e.strategy); err != nil {
				return nil, errors.Wrapf(err, "merge %s", paths[i])
			}
		}
	}
	return c, nil
}

func (l *Loader) parseFile(path string) ([]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gunzip")
		}
		defer gz.Close()
		src = gz
	}

	return l.parse(src)
}

func (l *Loader) parse(src io.Reader) ([]entry, error) {
	r := csv.NewReader(src)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var entries []entry
	line := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}
		line++

		rec, err := toRecord(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", line)
		}
		if err := l.validate.Struct(rec); err != nil {
			return nil, errors.Wrapf(err, "record %d (%s)", line, rec.Category)
		}

		strategy, err := buildStrategy(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d (%s)", line, rec.Category)
		}

		entries = append(entries, entry{
			category: strings.ToLower(rec.Category),
			strategy: strategy,
		})
	}
	return entries, nil
}

func toRecord(fields []string) (record, error) {
	if len(fields) < 2 || len(fields) > 5 {
		return record{}, errors.Errorf("expected 2..5 fields, got %d", len(fields))
	}

	rec := record{
		Category: strings.TrimSpace(fields[0]),
		Kind:     strings.TrimSpace(fields[1]),
	}
	if len(fields) > 2 {
		rec.Price = strings.TrimSpace(fields[2])
	}
	if len(fields) > 3 {
		rec.BundleSize = strings.TrimSpace(fields[3])
	}
	if len(fields) > 4 {
		rec.BundlePrice = strings.TrimSpace(fields[4])
	}
	return rec, nil
}

func buildStrategy(rec record) (pricing.Strategy, error) {
	switch pricing.Kind(rec.Kind) {
	case pricing.KindPerUnit:
		price, err := decimal.NewFromString(rec.Price)
		if err != nil {
			return nil, errors.Wrap(err, "parse price")
		}
		return pricing.NewPerUnit(price), nil

	case pricing.KindPerWeight:
		price, err := decimal.NewFromString(rec.Price)
		if err != nil {
			return nil, errors.Wrap(err, "parse price")
		}
		return pricing.NewPerWeight(price), nil

	case pricing.KindMultiBuy:
		size, err := strconv.Atoi(rec.BundleSize)
		if err != nil {
			return nil, errors.Wrap(err, "parse bundle size")
		}
		price, err := decimal.NewFromString(rec.BundlePrice)
		if err != nil {
			return nil, errors.Wrap(err, "parse bundle price")
		}
		mb, err := pricing.NewMultiBuy(size, price)
		if err != nil {
			return nil, err
		}
		return mb, nil

	default:
		return nil, errors.Errorf("unsupported kind %q", rec.Kind)
	}
}
