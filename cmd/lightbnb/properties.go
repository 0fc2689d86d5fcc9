package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lightbnb/internal/domain"
)

func propertiesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Search or create properties",
	}
	cmd.AddCommand(propertiesListCmd(c), propertiesAddCmd(c))
	return cmd
}

// listFlags are the search flags. Prices are given in dollars.
type listFlags struct {
	city      string
	owner     int64
	minPrice  float64
	maxPrice  float64
	minRating float64
	limit     int
	offset    int
}

func (lf *listFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&lf.city, "city", "", "city substring, case-insensitive")
	fs.Int64Var(&lf.owner, "owner", 0, "owner user id")
	fs.Float64Var(&lf.minPrice, "min-price", 0, "minimum price per night in dollars")
	fs.Float64Var(&lf.maxPrice, "max-price", 0, "maximum price per night in dollars")
	fs.Float64Var(&lf.minRating, "min-rating", 0, "minimum average rating")
	fs.IntVar(&lf.limit, "limit", 10, "page size")
	fs.IntVar(&lf.offset, "offset", 0, "rows to skip")
}

// filter only sets fields for flags that were given.
func (lf *listFlags) filter(fs *pflag.FlagSet) domain.PropertyFilter {
	f := domain.PropertyFilter{Limit: lf.limit, Offset: lf.offset}
	if fs.Changed("city") {
		f.City = &lf.city
	}
	if fs.Changed("owner") {
		f.OwnerID = &lf.owner
	}
	if fs.Changed("min-price") {
		v := dollarsToCents(lf.minPrice)
		f.MinPricePerNight = &v
	}
	if fs.Changed("max-price") {
		v := dollarsToCents(lf.maxPrice)
		f.MaxPricePerNight = &v
	}
	if fs.Changed("min-rating") {
		f.MinimumRating = &lf.minRating
	}
	return f
}

func propertiesListCmd(c *cli) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties matching the given filters, cheapest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := c.q.GetAllProperties(cmd.Context(), lf.filter(cmd.Flags()))
			if err != nil {
				return err
			}
			return printJSON(cmd, ps)
		},
	}
	lf.register(cmd.Flags())
	return cmd
}

func propertiesAddCmd(c *cli) *cobra.Command {
	var (
		np    domain.NewProperty
		price float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			if price <= 0 {
				return fmt.Errorf("--price must be positive, got %v", price)
			}
			np.CostPerNight = dollarsToCents(price)
			p, err := c.cmd.AddProperty(cmd.Context(), np)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	fs := cmd.Flags()
	fs.Int64Var(&np.OwnerID, "owner", 0, "owner user id")
	fs.StringVar(&np.Title, "title", "", "listing title")
	fs.StringVar(&np.Description, "description", "", "listing description")
	fs.StringVar(&np.ThumbnailPhotoURL, "thumbnail", "", "thumbnail photo url")
	fs.StringVar(&np.CoverPhotoURL, "cover", "", "cover photo url")
	fs.Float64Var(&price, "price", 0, "price per night in dollars")
	fs.IntVar(&np.ParkingSpaces, "parking", 0, "parking spaces")
	fs.IntVar(&np.NumberOfBathrooms, "bathrooms", 0, "number of bathrooms")
	fs.IntVar(&np.NumberOfBedrooms, "bedrooms", 0, "number of bedrooms")
	fs.StringVar(&np.Country, "country", "", "country")
	fs.StringVar(&np.Street, "street", "", "street address")
	fs.StringVar(&np.City, "city", "", "city")
	fs.StringVar(&np.Province, "province", "", "province")
	fs.StringVar(&np.PostCode, "post-code", "", "post code")
	for _, name := range []string{"owner", "title", "price", "country", "street", "city", "province", "post-code"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func dollarsToCents(d float64) int64 {
	return int64(math.Round(d * 100))
}
